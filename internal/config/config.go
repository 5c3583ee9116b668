package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects the storage backend. Driver is "sqlite" (default)
// or "postgres". Path applies to sqlite; the remaining fields to postgres.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix TRAINER_ and underscore-separated paths:
//
//	TRAINER_SERVER_HOST, TRAINER_SERVER_PORT,
//	TRAINER_DB_DRIVER, TRAINER_DB_PATH,
//	TRAINER_DB_HOST, TRAINER_DB_PORT, TRAINER_DB_NAME,
//	TRAINER_DB_USER, TRAINER_DB_PASSWORD, TRAINER_DB_SSLMODE,
//	TRAINER_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRAINER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TRAINER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TRAINER_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("TRAINER_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TRAINER_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("TRAINER_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("TRAINER_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("TRAINER_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("TRAINER_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("TRAINER_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("TRAINER_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for the postgres driver")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required for the postgres driver")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required for the postgres driver")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
