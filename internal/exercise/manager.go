package exercise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Failure classes reported by the Manager. Repository errors are collapsed
// into these; ErrNotFound passes through unchanged.
var (
	ErrSaveFailed   = errors.New("save failed")
	ErrLookupFailed = errors.New("lookup failed")
	ErrDeleteFailed = errors.New("delete failed")
)

// Manager applies catalog semantics on top of a Repository: create-or-update
// saves, case-insensitive name lookup, and delete by name.
type Manager struct {
	repo Repository
	log  *slog.Logger
}

// NewManager creates a Manager backed by repo.
func NewManager(repo Repository, log *slog.Logger) *Manager {
	return &Manager{repo: repo, log: log}
}

// Save creates or updates an exercise. An exercise without an identifier is
// created and the returned copy carries the store-generated id. An exercise
// with an identifier must already exist; it is verified and then updated.
func (m *Manager) Save(ctx context.Context, e Exercise) (Exercise, error) {
	id, ok := e.ID()
	if !ok {
		newID, err := m.repo.Create(ctx, e)
		if err != nil {
			if errors.Is(err, ErrDuplicateName) {
				return Exercise{}, err
			}
			m.log.Error("create failed", "name", e.Name(), "error", err)
			return Exercise{}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
		m.log.Debug("exercise created", "name", e.Name(), "id", newID)
		return e.withID(newID), nil
	}

	if _, err := m.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			m.log.Error("exercise was not found with provided id", "id", id)
			return Exercise{}, ErrNotFound
		}
		m.log.Error("lookup before update failed", "id", id, "error", err)
		return Exercise{}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if err := m.repo.Update(ctx, e); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Exercise{}, ErrNotFound
		}
		if errors.Is(err, ErrDuplicateName) {
			return Exercise{}, err
		}
		m.log.Error("update failed", "id", id, "error", err)
		return Exercise{}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	m.log.Debug("exercise updated", "name", e.Name(), "id", id)
	return e, nil
}

// GetByName retrieves an exercise by name, case-insensitively.
func (m *Manager) GetByName(ctx context.Context, name string) (Exercise, error) {
	e, err := m.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.log.Debug("exercise not found", "name", name)
			return Exercise{}, ErrNotFound
		}
		m.log.Error("lookup failed", "name", name, "error", err)
		return Exercise{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return e, nil
}

// List returns the catalog.
func (m *Manager) List(ctx context.Context) ([]Exercise, error) {
	exercises, err := m.repo.List(ctx)
	if err != nil {
		m.log.Error("list failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return exercises, nil
}

// Delete removes the exercise with the given name. The name is resolved to
// an identifier first; names are the catalog's public handle, ids are not.
func (m *Manager) Delete(ctx context.Context, name string) error {
	e, err := m.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.log.Error("exercise was not found", "name", name)
			return ErrNotFound
		}
		m.log.Error("lookup before delete failed", "name", name, "error", err)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	// A stored exercise always carries an id; GetByName read it from the store.
	id, _ := e.ID()
	if err := m.repo.Delete(ctx, id); err != nil {
		m.log.Error("delete failed", "name", name, "id", id, "error", err)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}
