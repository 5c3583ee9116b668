package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gavinmead/trainer/internal/exercise"
)

// PostgresStore implements exercise.Repository on a pgx connection pool.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// Compile-time check: *PostgresStore satisfies exercise.Repository.
var _ exercise.Repository = (*PostgresStore)(nil)

// OpenPostgres creates a PostgresStore with a connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.Pool.Close()
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Create inserts a new exercise and returns the generated id.
func (s *PostgresStore) Create(ctx context.Context, e exercise.Exercise) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO exercises (name, description, exercise_type)
		 VALUES ($1, $2, $3) RETURNING id`,
		e.Name(), e.Description(), e.Type().Code()).Scan(&id)
	if err != nil {
		if isPGUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", exercise.ErrDuplicateName, e.Name())
		}
		return 0, fmt.Errorf("inserting exercise: %w", err)
	}
	return id, nil
}

// Update rewrites the row identified by the exercise's id.
func (s *PostgresStore) Update(ctx context.Context, e exercise.Exercise) error {
	id, ok := e.ID()
	if !ok {
		return exercise.ErrNotFound
	}
	tag, err := s.Pool.Exec(ctx,
		`UPDATE exercises SET name = $1, description = $2, exercise_type = $3 WHERE id = $4`,
		e.Name(), e.Description(), e.Type().Code(), id)
	if err != nil {
		if isPGUniqueViolation(err) {
			return fmt.Errorf("%w: %s", exercise.ErrDuplicateName, e.Name())
		}
		return fmt.Errorf("updating exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return exercise.ErrNotFound
	}
	return nil
}

// GetByName retrieves an exercise by its unique name, case-insensitively.
func (s *PostgresStore) GetByName(ctx context.Context, name string) (exercise.Exercise, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, name, description, exercise_type
		 FROM exercises WHERE deleted = FALSE AND LOWER(name) = LOWER($1)`, name)
	return scanPGExercise(row)
}

// GetByID retrieves an exercise by its identifier.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (exercise.Exercise, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, name, description, exercise_type
		 FROM exercises WHERE deleted = FALSE AND id = $1`, id)
	return scanPGExercise(row)
}

// List returns all exercises that have not been soft-deleted.
func (s *PostgresStore) List(ctx context.Context) ([]exercise.Exercise, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, description, exercise_type
		 FROM exercises WHERE deleted = FALSE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []exercise.Exercise
	for rows.Next() {
		e, err := scanPGExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Delete soft-deletes the exercise with the given id.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE exercises SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return exercise.ErrNotFound
	}
	return nil
}

func scanPGExercise(row pgx.Row) (exercise.Exercise, error) {
	var (
		id       int64
		name     string
		desc     *string
		typeCode int64
	)
	if err := row.Scan(&id, &name, &desc, &typeCode); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exercise.Exercise{}, exercise.ErrNotFound
		}
		return exercise.Exercise{}, fmt.Errorf("scanning exercise: %w", err)
	}
	kind, err := exercise.ExerciseTypeFromCode(typeCode)
	if err != nil {
		return exercise.Exercise{}, fmt.Errorf("scanning exercise: %w", err)
	}
	description := ""
	if desc != nil {
		description = *desc
	}
	return exercise.NewWithID(id, name, kind, description), nil
}

func isPGUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
