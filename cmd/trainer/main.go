package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/gavinmead/trainer/internal/config"
	"github.com/gavinmead/trainer/internal/exercise"
	"github.com/gavinmead/trainer/internal/mcp"
	"github.com/gavinmead/trainer/internal/server"
	"github.com/gavinmead/trainer/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Trainer starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open storage. SQLite runs its embedded migrations on open; postgres
	// migrations run from the migrations directory first.
	ctx := context.Background()
	var repo exercise.Repository

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		store, err := storage.OpenPostgres(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		repo = store

	case config.DriverSQLite:
		store, err := storage.OpenSQLite(cfg.Database.Path)
		if err != nil {
			log.Error("failed to open database", "path", cfg.Database.Path, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}
		repo = store
	}
	log.Info("database ready", "driver", cfg.Database.Driver)

	mgr := exercise.NewManager(repo, log)

	// Create server and mount the MCP transport
	srv := server.New(mgr, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(mgr, Version, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
