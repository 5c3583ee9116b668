package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gavinmead/trainer/internal/exercise"
)

// CreateExerciseRequest is the body for POST and PUT exercise calls.
type CreateExerciseRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ExerciseType string `json:"exercise_type"`
}

// CreateExerciseResponse carries the store-generated id of a new exercise.
type CreateExerciseResponse struct {
	ID int64 `json:"id"`
}

// ExerciseResponse is the wire form of an exercise. ID is omitted when the
// exercise has no assigned identifier.
type ExerciseResponse struct {
	ID           *int64 `json:"id,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ExerciseType string `json:"exercise_type"`
}

func toExerciseResponse(e exercise.Exercise) ExerciseResponse {
	resp := ExerciseResponse{
		Name:         e.Name(),
		Description:  e.Description(),
		ExerciseType: e.Type().String(),
	}
	if id, ok := e.ID(); ok {
		resp.ID = &id
	}
	return resp
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	kind, err := exercise.ParseExerciseType(req.ExerciseType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	saved, err := s.mgr.Save(r.Context(), exercise.NewWithDescription(req.Name, kind, req.Description))
	if err != nil {
		if errors.Is(err, exercise.ErrDuplicateName) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("create exercise", "name", req.Name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	id, _ := saved.ID()
	writeJSON(w, http.StatusCreated, CreateExerciseResponse{ID: id})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.mgr.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := make([]ExerciseResponse, 0, len(exercises))
	for _, e := range exercises {
		resp = append(resp, toExerciseResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	e, err := s.mgr.GetByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toExerciseResponse(e))
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	var req CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	kind, err := exercise.ParseExerciseType(req.ExerciseType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	saved, err := s.mgr.Save(r.Context(), exercise.NewWithID(id, req.Name, kind, req.Description))
	if err != nil {
		switch {
		case errors.Is(err, exercise.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		case errors.Is(err, exercise.ErrDuplicateName):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			s.log.Error("update exercise", "id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, toExerciseResponse(saved))
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.mgr.Delete(r.Context(), name); err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
			return
		}
		s.log.Error("delete exercise", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
