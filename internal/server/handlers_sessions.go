package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/storage"
)

func sessionNotFound(w http.ResponseWriter, sessionID int) {
	writeMessage(w, http.StatusNotFound, fmt.Sprintf("No workout session with id %d for this user.", sessionID))
}

// sessionPath parses the plan and session IDs of a session URL.
func sessionPath(w http.ResponseWriter, r *http.Request) (planID, sessionID int, ok bool) {
	planID, err := urlID(r, "planID")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	sessionID, err = urlID(r, "sessionID")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return planID, sessionID, true
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListWorkoutSessions(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		s.writeInternal(w, r, "listing workout sessions failed", err)
		return
	}
	if sessions == nil {
		sessions = []models.SessionListItem{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	planID, sessionID, ok := sessionPath(w, r)
	if !ok {
		return
	}
	session, err := s.store.GetWorkoutSession(r.Context(), UserIDFromContext(r.Context()), planID, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		sessionNotFound(w, sessionID)
		return
	}
	if err != nil {
		s.writeInternal(w, r, "getting workout session failed", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	planID, err := urlID(r, "planID")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var in models.WorkoutSessionInput
	if _, ok := decodeValidated(w, r, validateSessionBody, &in); !ok {
		return
	}

	session, err := s.store.CreateWorkoutSession(r.Context(), UserIDFromContext(r.Context()), planID, in)
	if errors.Is(err, storage.ErrNotFound) {
		planNotFound(w, planID)
		return
	}
	if writeExerciseError(w, err) {
		return
	}
	if err != nil {
		s.writeInternal(w, r, "creating workout session failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	planID, sessionID, ok := sessionPath(w, r)
	if !ok {
		return
	}
	var in models.WorkoutSessionInput
	obj, ok := decodeValidated(w, r, validateSessionBody, &in)
	if !ok {
		return
	}
	in.Present = presentKeys(obj, models.FieldScheduledAt, models.FieldStartedAt, models.FieldCompletedAt)

	session, err := s.store.UpdateWorkoutSession(r.Context(), UserIDFromContext(r.Context()), planID, sessionID, in)
	if errors.Is(err, storage.ErrNotFound) {
		sessionNotFound(w, sessionID)
		return
	}
	if writeExerciseError(w, err) {
		return
	}
	if err != nil {
		s.writeInternal(w, r, "updating workout session failed", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	planID, sessionID, ok := sessionPath(w, r)
	if !ok {
		return
	}
	err := s.store.DeleteWorkoutSession(r.Context(), UserIDFromContext(r.Context()), planID, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		sessionNotFound(w, sessionID)
		return
	}
	if err != nil {
		s.writeInternal(w, r, "deleting workout session failed", err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Workout session with id %d successfully deleted.", sessionID))
}
