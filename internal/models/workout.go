package models

import "time"

// User is an account row. PasswordHash never leaves the server.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Exercise is an entry of the shared exercise catalog.
type Exercise struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	MuscleGroup *string `json:"muscle_group,omitempty"`
}

// WorkoutPlan is a user-owned named collection of target exercises.
type WorkoutPlan struct {
	ID        int            `json:"id"`
	UserID    int            `json:"-"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Exercises []PlanExercise `json:"exercises,omitempty"`
}

// PlanExercise links a catalog exercise to a plan with its targets.
type PlanExercise struct {
	ID           int     `json:"workout_plan_exercise_id"`
	ExerciseID   int     `json:"id"`
	Name         string  `json:"name"`
	TargetSets   int     `json:"target_sets"`
	TargetReps   int     `json:"target_reps"`
	TargetWeight float64 `json:"target_weight"`
}

// PlanExerciseInput is one requested plan exercise on create or update.
// Nil targets fall back to the current value, or to the defaults on insert.
type PlanExerciseInput struct {
	ExerciseID   int      `json:"exercise_id"`
	TargetSets   *int     `json:"target_sets"`
	TargetReps   *int     `json:"target_reps"`
	TargetWeight *float64 `json:"target_weight"`
}

// WorkoutSession is one scheduled or performed run of a plan.
type WorkoutSession struct {
	ID            int               `json:"workout_session_id"`
	WorkoutPlanID int               `json:"workout_plan_id"`
	ScheduledAt   *Timestamp        `json:"scheduled_at"`
	StartedAt     *Timestamp        `json:"started_at"`
	CompletedAt   *Timestamp        `json:"completed_at"`
	Exercises     []SessionExercise `json:"session_exercises"`
}

// SessionExercise is the performed result for one plan exercise in a session.
type SessionExercise struct {
	ID                    int     `json:"id"`
	WorkoutPlanExerciseID int     `json:"workout_plan_exercise_id"`
	ActualSets            int     `json:"actual_sets"`
	ActualReps            int     `json:"actual_reps"`
	ActualWeight          float64 `json:"actual_weight"`
	Notes                 *string `json:"notes"`
}

// SessionExerciseInput is one requested session exercise on create or update.
type SessionExerciseInput struct {
	WorkoutPlanExerciseID int      `json:"workout_plan_exercise_id"`
	ActualSets            *int     `json:"actual_sets"`
	ActualReps            *int     `json:"actual_reps"`
	ActualWeight          *float64 `json:"actual_weight"`
	Notes                 *string  `json:"notes"`
}

// SessionListItem is the compact listing form of a session.
type SessionListItem struct {
	ID            int        `json:"id"`
	WorkoutPlanID int        `json:"workout_plan_id"`
	ScheduledAt   *Timestamp `json:"scheduled_at"`
}

// Defaults applied to plan and session exercises created without values.
const (
	DefaultSets   = 1
	DefaultReps   = 1
	DefaultWeight = 1.0
)

// WorkoutPlanInput is the body of plan create and update requests. A nil
// Name leaves the name unchanged on update.
type WorkoutPlanInput struct {
	Name      *string             `json:"name,omitempty"`
	Exercises []PlanExerciseInput `json:"exercises,omitempty"`
}

// Session timestamp keys as they appear in request bodies.
const (
	FieldScheduledAt = "scheduled_at"
	FieldStartedAt   = "started_at"
	FieldCompletedAt = "completed_at"
)

// WorkoutSessionInput is the body of session create and update requests.
type WorkoutSessionInput struct {
	ScheduledAt *Timestamp             `json:"scheduled_at,omitempty"`
	StartedAt   *Timestamp             `json:"started_at,omitempty"`
	CompletedAt *Timestamp             `json:"completed_at,omitempty"`
	Exercises   []SessionExerciseInput `json:"exercises,omitempty"`

	// Present lists the timestamp keys sent in an update body, explicit
	// nulls included. A key sent as null clears the column.
	Present map[string]bool `json:"-"`
}

// Sets reports whether an update writes the timestamp named by key. Without
// a Present set only non-nil timestamps are written.
func (in WorkoutSessionInput) Sets(key string) bool {
	if in.Present != nil {
		return in.Present[key]
	}
	switch key {
	case FieldScheduledAt:
		return in.ScheduledAt != nil
	case FieldStartedAt:
		return in.StartedAt != nil
	case FieldCompletedAt:
		return in.CompletedAt != nil
	}
	return false
}
