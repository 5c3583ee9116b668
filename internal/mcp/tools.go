package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gavinmead/trainer/internal/exercise"
)

// exerciseView is the JSON shape returned by tools and resources. The id is
// a pointer so exercises without an assigned identifier omit it.
type exerciseView struct {
	ID           *int64 `json:"id,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ExerciseType string `json:"exercise_type"`
}

func toExerciseView(e exercise.Exercise) exerciseView {
	v := exerciseView{
		Name:         e.Name(),
		Description:  e.Description(),
		ExerciseType: e.Type().String(),
	}
	if id, ok := e.ID(); ok {
		v.ID = &id
	}
	return v
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all exercises in the catalog with their names, descriptions, and equipment types."),
)

var toolGetExercise = mcp.NewTool("get_exercise",
	mcp.WithDescription("Look up a single exercise by name. The match is case-insensitive."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name (e.g. 'Deadlift')")),
)

var toolSaveExercise = mcp.NewTool("save_exercise",
	mcp.WithDescription("Create or update an exercise. Without an id a new exercise is created and its assigned id returned; with an id the existing exercise is rewritten."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name. Must be unique in the catalog (case-insensitive).")),
	mcp.WithString("exercise_type", mcp.Required(), mcp.Description("Equipment type"), mcp.Enum("barbell", "kettlebell")),
	mcp.WithString("description", mcp.Description("Free-form description of the movement")),
	mcp.WithNumber("id", mcp.Description("Identifier of an existing exercise to update. Omit to create.")),
)

var toolDeleteExercise = mcp.NewTool("delete_exercise",
	mcp.WithDescription("Delete an exercise from the catalog by name."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.mgr.List(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("list failed: " + err.Error()), nil
	}

	views := make([]exerciseView, 0, len(exercises))
	for _, e := range exercises {
		views = append(views, toExerciseView(e))
	}

	result, err := mcp.NewToolResultJSON(views)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	e, err := h.mgr.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			return mcp.NewToolResultError("exercise not found: " + name), nil
		}
		h.log.Error("mcp get_exercise", "name", name, "error", err)
		return mcp.NewToolResultError("lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(toExerciseView(e))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) saveExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	kind, err := exercise.ParseExerciseType(req.GetString("exercise_type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	description := req.GetString("description", "")
	id := int64(req.GetInt("id", 0))

	var e exercise.Exercise
	if id > 0 {
		e = exercise.NewWithID(id, name, kind, description)
	} else {
		e = exercise.NewWithDescription(name, kind, description)
	}

	saved, err := h.mgr.Save(ctx, e)
	if err != nil {
		switch {
		case errors.Is(err, exercise.ErrDuplicateName):
			return mcp.NewToolResultError("an exercise with that name already exists"), nil
		case errors.Is(err, exercise.ErrNotFound):
			return mcp.NewToolResultError("no exercise with that id"), nil
		}
		h.log.Error("mcp save_exercise", "name", name, "error", err)
		return mcp.NewToolResultError("save failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(toExerciseView(saved))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) deleteExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	if err := h.mgr.Delete(ctx, name); err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			return mcp.NewToolResultError("exercise not found: " + name), nil
		}
		h.log.Error("mcp delete_exercise", "name", name, "error", err)
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]string{"deleted": name})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
