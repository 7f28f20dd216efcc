package server

import (
	"errors"
	"net/http"

	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/report"
	"github.com/claude/workouttracker/internal/storage"
)

// loadReport fetches the report payload of the plan in the URL, writing the
// error response itself on failure.
func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (*models.WorkoutPlanReport, bool) {
	planID, err := urlID(r, "planID")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	rep, err := s.store.GetWorkoutPlanReport(r.Context(), UserIDFromContext(r.Context()), planID)
	if errors.Is(err, storage.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Workout plan not found")
		return nil, false
	}
	if err != nil {
		s.writeInternal(w, r, "building report failed", err)
		return nil, false
	}
	rep.Normalize()
	return rep, true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	result := report.Build(*rep)
	if s.opts.Metrics != nil {
		s.opts.Metrics.CounterReportsComputed.Inc()
	}
	writeJSON(w, http.StatusOK, result)
}
