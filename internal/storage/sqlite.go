// Package storage provides exercise.Repository implementations backed by
// SQLite (the default, single-file deployment) and PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/gavinmead/trainer/internal/exercise"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// SQLiteStore implements exercise.Repository on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies exercise.Repository.
var _ exercise.Repository = (*SQLiteStore)(nil)

// InMemory is the path for a throwaway in-memory database.
const InMemory = ":memory:"

// OpenSQLite opens (or creates) the SQLite database at path and applies the
// embedded migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection keeps in-memory databases alive and sidesteps
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrateSQLite(db *sql.DB) error {
	src, err := iofs.New(sqliteMigrations, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}
	drv, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create inserts a new exercise and returns the generated id.
func (s *SQLiteStore) Create(ctx context.Context, e exercise.Exercise) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exercises (name, description, exercise_type) VALUES (?, ?, ?)`,
		e.Name(), e.Description(), e.Type().Code())
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", exercise.ErrDuplicateName, e.Name())
		}
		return 0, fmt.Errorf("inserting exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading generated id: %w", err)
	}
	return id, nil
}

// Update rewrites the row identified by the exercise's id.
func (s *SQLiteStore) Update(ctx context.Context, e exercise.Exercise) error {
	id, ok := e.ID()
	if !ok {
		return exercise.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE exercises SET name = ?, description = ?, exercise_type = ? WHERE id = ?`,
		e.Name(), e.Description(), e.Type().Code(), id)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return fmt.Errorf("%w: %s", exercise.ErrDuplicateName, e.Name())
		}
		return fmt.Errorf("updating exercise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return exercise.ErrNotFound
	}
	return nil
}

// GetByName retrieves an exercise by its unique name. The name column is
// COLLATE NOCASE, so the match is case-insensitive.
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (exercise.Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, exercise_type
		 FROM exercises WHERE deleted = 0 AND name = ?`, name)
	return scanExercise(row)
}

// GetByID retrieves an exercise by its identifier.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (exercise.Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, exercise_type
		 FROM exercises WHERE deleted = 0 AND id = ?`, id)
	return scanExercise(row)
}

// List returns all exercises that have not been soft-deleted.
func (s *SQLiteStore) List(ctx context.Context) ([]exercise.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, exercise_type
		 FROM exercises WHERE deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []exercise.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Delete soft-deletes the exercise with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE exercises SET deleted = 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return exercise.ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExercise(row scanner) (exercise.Exercise, error) {
	var (
		id       int64
		name     string
		desc     sql.NullString
		typeCode int64
	)
	if err := row.Scan(&id, &name, &desc, &typeCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return exercise.Exercise{}, exercise.ErrNotFound
		}
		return exercise.Exercise{}, fmt.Errorf("scanning exercise: %w", err)
	}
	kind, err := exercise.ExerciseTypeFromCode(typeCode)
	if err != nil {
		return exercise.Exercise{}, fmt.Errorf("scanning exercise: %w", err)
	}
	return exercise.NewWithID(id, name, kind, desc.String), nil
}

// modernc.org/sqlite reports constraint violations only through the error
// text, so match on the stable message fragment.
func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
