package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/claude/workouttracker/internal/storage"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeFieldErrors(w http.ResponseWriter, fe fieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "errors": fe})
}

// writeInternal logs err and answers with a generic 500.
func (s *Server) writeInternal(w http.ResponseWriter, r *http.Request, what string, err error) {
	s.log.Error(what, "error", err, "request_id", RequestIDFromContext(r.Context()))
	writeMessage(w, http.StatusInternalServerError, "An error occurred while processing the request.")
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// urlID parses a positive URL parameter that fits an INTEGER column.
func urlID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return int(id), nil
}

// writeExerciseError answers for an unresolved exercise reference. It
// returns false if err is not one.
func writeExerciseError(w http.ResponseWriter, err error) bool {
	var me *storage.MissingExerciseError
	if !errors.As(err, &me) {
		return false
	}
	if errors.Is(err, storage.ErrExerciseNotInPlan) {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf(
			"Exercise with id %d does not exist in workout plan. Add exercise to workout plan first.", me.ID))
		return true
	}
	writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Exercise with id %d does not exist.", me.ID))
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetDataStats(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		s.writeInternal(w, r, "stats query failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.store.ListExercises(r.Context())
	if err != nil {
		s.writeInternal(w, r, "listing exercises failed", err)
		return
	}
	if len(exercises) == 0 {
		writeMessage(w, http.StatusNotFound, "No exercises found")
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Exercise not found")
		return
	}
	exercise, err := s.store.GetExercise(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err != nil {
		s.writeInternal(w, r, "getting exercise failed", err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}
