package exercise

import (
	"context"
	"errors"
)

// Sentinel errors shared by all Repository implementations.
var (
	// ErrNotFound is returned when no matching exercise exists.
	ErrNotFound = errors.New("exercise not found")
	// ErrDuplicateName is returned when a create would violate the
	// case-insensitive unique name constraint.
	ErrDuplicateName = errors.New("exercise name already exists")
)

// Repository persists exercises. Names are unique case-insensitively and
// deletes are soft: deleted rows never come back from lookups or List.
type Repository interface {
	// Create persists a new exercise and returns the generated identifier.
	Create(ctx context.Context, e Exercise) (int64, error)

	// Update rewrites the exercise identified by its id.
	// Returns ErrNotFound when no such row exists.
	Update(ctx context.Context, e Exercise) error

	// GetByName retrieves an exercise by its unique name, case-insensitively.
	GetByName(ctx context.Context, name string) (Exercise, error)

	// GetByID retrieves an exercise by its identifier.
	GetByID(ctx context.Context, id int64) (Exercise, error)

	// List returns all exercises that have not been deleted.
	List(ctx context.Context) ([]Exercise, error)

	// Delete soft-deletes the exercise with the given identifier.
	Delete(ctx context.Context, id int64) error
}
