package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/storage"
)

// decodeValidated reads the body, runs validate on the raw object and then
// decodes it into dst. It returns the raw object, or writes the error
// response itself and returns false.
func decodeValidated(w http.ResponseWriter, r *http.Request, validate func(map[string]any) fieldErrors, dst any) (map[string]any, bool) {
	body, err := readBody(w, r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Could not read request body.")
		return nil, false
	}
	obj, err := decodeObject(body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Request body must be a JSON object.")
		return nil, false
	}
	if fe := validate(obj); len(fe) > 0 {
		writeFieldErrors(w, fe)
		return nil, false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return nil, false
	}
	return obj, true
}

func planNotFound(w http.ResponseWriter, planID int) {
	writeMessage(w, http.StatusNotFound, fmt.Sprintf("No workout plan with id %d for this user.", planID))
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListWorkoutPlans(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		s.writeInternal(w, r, "listing workout plans failed", err)
		return
	}
	if plans == nil {
		plans = []models.WorkoutPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := urlID(r, "planID")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	plan, err := s.store.GetWorkoutPlan(r.Context(), UserIDFromContext(r.Context()), planID)
	if errors.Is(err, storage.ErrNotFound) {
		planNotFound(w, planID)
		return
	}
	if err != nil {
		s.writeInternal(w, r, "getting workout plan failed", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var in models.WorkoutPlanInput
	if _, ok := decodeValidated(w, r, validatePlanBody, &in); !ok {
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		writeMessage(w, http.StatusBadRequest, "Workout plan name must be provided.")
		return
	}

	plan, err := s.store.CreateWorkoutPlan(r.Context(), UserIDFromContext(r.Context()), strings.TrimSpace(*in.Name), in.Exercises)
	if writeExerciseError(w, err) {
		return
	}
	if err != nil {
		s.writeInternal(w, r, "creating workout plan failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := urlID(r, "planID")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var in models.WorkoutPlanInput
	if _, ok := decodeValidated(w, r, validatePlanBody, &in); !ok {
		return
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			writeMessage(w, http.StatusBadRequest, "Workout plan name must be provided.")
			return
		}
		in.Name = &name
	}

	plan, err := s.store.UpdateWorkoutPlan(r.Context(), UserIDFromContext(r.Context()), planID, in.Name, in.Exercises)
	if errors.Is(err, storage.ErrNotFound) {
		planNotFound(w, planID)
		return
	}
	if writeExerciseError(w, err) {
		return
	}
	if err != nil {
		s.writeInternal(w, r, "updating workout plan failed", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := urlID(r, "planID")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.store.DeleteWorkoutPlan(r.Context(), UserIDFromContext(r.Context()), planID)
	if errors.Is(err, storage.ErrNotFound) {
		planNotFound(w, planID)
		return
	}
	if err != nil {
		s.writeInternal(w, r, "deleting workout plan failed", err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Workout plan with id %d successfully deleted.", planID))
}
