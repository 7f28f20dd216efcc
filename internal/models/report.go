package models

// WorkoutPlanReport is the per-plan progress payload served by
// GET /v1/reports/workout-plan/{id} and consumed by the report aggregator.
type WorkoutPlanReport struct {
	ID        int             `json:"workout_plan_id"`
	Name      string          `json:"workout_plan_name"`
	Exercises []PlanExercise  `json:"workout_plan_exercises"`
	Sessions  []ReportSession `json:"workout_plan_sessions"`
}

// ReportSession is one session of a plan with its performed exercises.
// A session is completed iff CompletedAt is set.
type ReportSession struct {
	ID          int                     `json:"session_id"`
	ScheduledAt *Timestamp              `json:"scheduled_at"`
	StartedAt   *Timestamp              `json:"started_at"`
	CompletedAt *Timestamp              `json:"completed_at"`
	Exercises   []SessionExerciseRecord `json:"session_exercises"`
}

// Completed reports whether the session has a completed timestamp.
func (s ReportSession) Completed() bool {
	return s.CompletedAt != nil
}

// SessionExerciseRecord is a performed exercise as it appears in a report.
// ExerciseName is the display name of the catalog exercise.
type SessionExerciseRecord struct {
	ID                    int     `json:"id"`
	WorkoutPlanExerciseID int     `json:"workout_plan_exercise_id"`
	ExerciseName          string  `json:"exercise_name"`
	ActualSets            int     `json:"actual_sets"`
	ActualReps            int     `json:"actual_reps"`
	ActualWeight          float64 `json:"actual_weight"`
	Notes                 *string `json:"notes"`
}

// Normalize replaces absent sequences with empty ones so a decoded payload
// with missing arrays renders and aggregates like an empty one.
func (r *WorkoutPlanReport) Normalize() {
	if r.Exercises == nil {
		r.Exercises = []PlanExercise{}
	}
	if r.Sessions == nil {
		r.Sessions = []ReportSession{}
	}
	for i := range r.Sessions {
		if r.Sessions[i].Exercises == nil {
			r.Sessions[i].Exercises = []SessionExerciseRecord{}
		}
	}
}
