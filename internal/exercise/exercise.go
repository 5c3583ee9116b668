// Package exercise defines the exercise catalog domain: the Exercise value
// object, the closed ExerciseType enumeration, and the Manager that applies
// catalog semantics on top of a Repository.
package exercise

import (
	"fmt"
	"strings"
)

// ExerciseType is the closed category of a strength exercise.
type ExerciseType int

const (
	Barbell ExerciseType = iota
	Kettlebell
)

// String returns the canonical lowercase name of the type.
func (t ExerciseType) String() string {
	switch t {
	case Barbell:
		return "barbell"
	case Kettlebell:
		return "kettlebell"
	}
	return fmt.Sprintf("ExerciseType(%d)", int(t))
}

// Code returns the stable integer encoding used by the stores.
func (t ExerciseType) Code() int64 {
	return int64(t)
}

// ExerciseTypeFromCode maps a stored integer code back to a type.
func ExerciseTypeFromCode(code int64) (ExerciseType, error) {
	switch code {
	case 0:
		return Barbell, nil
	case 1:
		return Kettlebell, nil
	}
	return 0, fmt.Errorf("unknown exercise type code %d", code)
}

// ParseExerciseType parses a user-supplied type name. Matching is
// case-insensitive and accepts the short aliases "bb" and "kb".
func ParseExerciseType(s string) (ExerciseType, error) {
	switch strings.ToLower(s) {
	case "barbell", "bb":
		return Barbell, nil
	case "kettlebell", "kb":
		return Kettlebell, nil
	}
	return 0, fmt.Errorf("unknown exercise type %q", s)
}

// Exercise is one exercise definition in the catalog. It is immutable after
// construction; a stored id of 0 means "not yet assigned" and is collapsed to
// absence by ID. An exercise that has never been saved carries the 0
// sentinel, so a caller supplying an explicit id of 0 reads back as
// unassigned as well.
type Exercise struct {
	id          int64
	name        string
	description string
	kind        ExerciseType
}

// New returns an exercise with no identifier and an empty description.
func New(name string, kind ExerciseType) Exercise {
	return NewWithID(0, name, kind, "")
}

// NewWithDescription returns an exercise with no identifier.
func NewWithDescription(name string, kind ExerciseType, description string) Exercise {
	return NewWithID(0, name, kind, description)
}

// NewWithID returns a fully specified exercise, typically one read back from
// a store. An id of 0 means the identifier is unassigned.
func NewWithID(id int64, name string, kind ExerciseType, description string) Exercise {
	return Exercise{id: id, name: name, description: description, kind: kind}
}

// ID returns the assigned identifier. ok is false when no identifier has
// been assigned (the stored value is the 0 sentinel).
func (e Exercise) ID() (id int64, ok bool) {
	if e.id == 0 {
		return 0, false
	}
	return e.id, true
}

// Name returns the display name.
func (e Exercise) Name() string { return e.name }

// Description returns the free-form description, possibly empty.
func (e Exercise) Description() string { return e.description }

// Type returns the exercise category.
func (e Exercise) Type() ExerciseType { return e.kind }

// withID returns a copy of e carrying the given identifier. Used by the
// Manager to hand back the store-generated id without mutating the input.
func (e Exercise) withID(id int64) Exercise {
	e.id = id
	return e
}
