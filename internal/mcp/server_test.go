package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/gavinmead/trainer/internal/exercise"
	"github.com/gavinmead/trainer/internal/storage"
)

func newTestHandlers(t *testing.T) *handlers {
	t.Helper()
	store, err := storage.OpenSQLite(storage.InMemory)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &handlers{mgr: exercise.NewManager(store, log), log: log}
}

func callRequest(name string, args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, res *mcpgo.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcpgo.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestSaveAndGetExercise verifies save_exercise creates an exercise that
// get_exercise finds by name, case-insensitively.
func TestSaveAndGetExercise(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	res, err := h.saveExercise(ctx, callRequest("save_exercise", map[string]any{
		"name":          "Deadlift",
		"exercise_type": "barbell",
		"description":   "Hip hinge movement",
	}))
	if err != nil {
		t.Fatalf("saveExercise: %v", err)
	}
	if res.IsError {
		t.Fatalf("saveExercise error: %s", resultText(t, res))
	}

	var saved exerciseView
	if err := json.Unmarshal([]byte(resultText(t, res)), &saved); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if saved.ID == nil || *saved.ID <= 0 {
		t.Fatalf("id = %v, want > 0", saved.ID)
	}

	res, err = h.getExercise(ctx, callRequest("get_exercise", map[string]any{"name": "deadlift"}))
	if err != nil {
		t.Fatalf("getExercise: %v", err)
	}
	if res.IsError {
		t.Fatalf("getExercise error: %s", resultText(t, res))
	}
	var got exerciseView
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.Name != "Deadlift" || got.ExerciseType != "barbell" || got.Description != "Hip hinge movement" {
		t.Errorf("got = %+v", got)
	}
}

// TestSaveExerciseUpdate verifies save_exercise with an id rewrites the
// existing exercise.
func TestSaveExerciseUpdate(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	res, _ := h.saveExercise(ctx, callRequest("save_exercise", map[string]any{
		"name":          "Swing",
		"exercise_type": "kettlebell",
	}))
	var saved exerciseView
	if err := json.Unmarshal([]byte(resultText(t, res)), &saved); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	res, err := h.saveExercise(ctx, callRequest("save_exercise", map[string]any{
		"id":            float64(*saved.ID),
		"name":          "Russian Swing",
		"exercise_type": "kettlebell",
		"description":   "Hike, hinge, snap",
	}))
	if err != nil {
		t.Fatalf("saveExercise: %v", err)
	}
	if res.IsError {
		t.Fatalf("update error: %s", resultText(t, res))
	}
	var updated exerciseView
	if err := json.Unmarshal([]byte(resultText(t, res)), &updated); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if updated.Name != "Russian Swing" || updated.Description != "Hike, hinge, snap" {
		t.Errorf("updated = %+v", updated)
	}
	if *updated.ID != *saved.ID {
		t.Errorf("id = %d, want %d", *updated.ID, *saved.ID)
	}
}

// TestSaveExerciseDuplicate verifies a duplicate name is reported as a tool
// error rather than a protocol failure.
func TestSaveExerciseDuplicate(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	if res, _ := h.saveExercise(ctx, callRequest("save_exercise", map[string]any{
		"name": "Squat", "exercise_type": "bb",
	})); res.IsError {
		t.Fatalf("seed error: %s", resultText(t, res))
	}

	res, err := h.saveExercise(ctx, callRequest("save_exercise", map[string]any{
		"name": "SQUAT", "exercise_type": "bb",
	}))
	if err != nil {
		t.Fatalf("saveExercise: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for duplicate name")
	}
}

// TestSaveExerciseBadType verifies an unknown equipment type is rejected.
func TestSaveExerciseBadType(t *testing.T) {
	h := newTestHandlers(t)

	res, err := h.saveExercise(context.Background(), callRequest("save_exercise", map[string]any{
		"name": "Leg Press", "exercise_type": "machine",
	}))
	if err != nil {
		t.Fatalf("saveExercise: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for unknown exercise type")
	}
}

// TestGetExerciseNotFound verifies the missing-name tool error.
func TestGetExerciseNotFound(t *testing.T) {
	h := newTestHandlers(t)

	res, err := h.getExercise(context.Background(), callRequest("get_exercise", map[string]any{"name": "nope"}))
	if err != nil {
		t.Fatalf("getExercise: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for unknown exercise")
	}
}

// TestListExercises verifies list_exercises returns every saved exercise.
func TestListExercises(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	for _, args := range []map[string]any{
		{"name": "Deadlift", "exercise_type": "barbell"},
		{"name": "Swing", "exercise_type": "kettlebell"},
	} {
		if res, _ := h.saveExercise(ctx, callRequest("save_exercise", args)); res.IsError {
			t.Fatalf("seed error: %s", resultText(t, res))
		}
	}

	res, err := h.listExercises(ctx, callRequest("list_exercises", nil))
	if err != nil {
		t.Fatalf("listExercises: %v", err)
	}
	var views []exerciseView
	if err := json.Unmarshal([]byte(resultText(t, res)), &views); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len = %d, want 2", len(views))
	}
}

// TestDeleteExercise verifies delete_exercise removes the exercise and a
// second delete reports not found.
func TestDeleteExercise(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	if res, _ := h.saveExercise(ctx, callRequest("save_exercise", map[string]any{
		"name": "Deadlift", "exercise_type": "barbell",
	})); res.IsError {
		t.Fatalf("seed error: %s", resultText(t, res))
	}

	res, err := h.deleteExercise(ctx, callRequest("delete_exercise", map[string]any{"name": "Deadlift"}))
	if err != nil {
		t.Fatalf("deleteExercise: %v", err)
	}
	if res.IsError {
		t.Fatalf("delete error: %s", resultText(t, res))
	}

	res, _ = h.deleteExercise(ctx, callRequest("delete_exercise", map[string]any{"name": "Deadlift"}))
	if !res.IsError {
		t.Error("expected tool error for second delete")
	}
}

// TestExerciseCatalogResource verifies the catalog resource serves the full
// exercise list as JSON.
func TestExerciseCatalogResource(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	if res, _ := h.saveExercise(ctx, callRequest("save_exercise", map[string]any{
		"name": "Swing", "exercise_type": "kb",
	})); res.IsError {
		t.Fatalf("seed error: %s", resultText(t, res))
	}

	req := mcpgo.ReadResourceRequest{}
	req.Params.URI = "trainer://exercise_catalog"

	contents, err := h.exerciseCatalog(ctx, req)
	if err != nil {
		t.Fatalf("exerciseCatalog: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcpgo.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T, want TextResourceContents", contents[0])
	}
	if tc.URI != "trainer://exercise_catalog" || tc.MIMEType != "application/json" {
		t.Errorf("uri = %q, mime = %q", tc.URI, tc.MIMEType)
	}

	var views []exerciseView
	if err := json.Unmarshal([]byte(tc.Text), &views); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(views) != 1 || views[0].Name != "Swing" || views[0].ExerciseType != "kettlebell" {
		t.Errorf("views = %+v", views)
	}
}
