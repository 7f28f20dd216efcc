package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/workouttracker/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListWorkoutSessions returns every session across all of the user's plans.
func (db *DB) ListWorkoutSessions(ctx context.Context, userID int) ([]models.SessionListItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT ws.id, ws.workout_plan_id, ws.scheduled_at
		FROM workout_sessions ws
		JOIN workout_plans wp ON wp.id = ws.workout_plan_id
		WHERE wp.user_id = $1
		ORDER BY ws.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout sessions: %w", err)
	}
	defer rows.Close()

	var out []models.SessionListItem
	for rows.Next() {
		var (
			item      models.SessionListItem
			scheduled *time.Time
		)
		if err := rows.Scan(&item.ID, &item.WorkoutPlanID, &scheduled); err != nil {
			return nil, fmt.Errorf("scanning workout session: %w", err)
		}
		item.ScheduledAt = models.TimestampOrNil(scheduled)
		out = append(out, item)
	}
	return out, rows.Err()
}

// GetWorkoutSession returns one session of a plan owned by the user.
func (db *DB) GetWorkoutSession(ctx context.Context, userID, planID, sessionID int) (*models.WorkoutSession, error) {
	return getWorkoutSession(ctx, db.Pool, userID, planID, sessionID)
}

// CreateWorkoutSession inserts a session and its exercises in one transaction.
// Every referenced plan exercise must belong to the plan.
func (db *DB) CreateWorkoutSession(ctx context.Context, userID, planID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error) {
	var session *models.WorkoutSession
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if err := ownsPlan(ctx, tx, userID, planID); err != nil {
			return err
		}
		var sessionID int
		if err := tx.QueryRow(ctx, `
			INSERT INTO workout_sessions (workout_plan_id, scheduled_at, started_at, completed_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, planID, models.TimeOrNil(in.ScheduledAt), models.TimeOrNil(in.StartedAt), models.TimeOrNil(in.CompletedAt),
		).Scan(&sessionID); err != nil {
			return fmt.Errorf("inserting workout session: %w", err)
		}
		if err := upsertSessionExercises(ctx, tx, planID, sessionID, in.Exercises); err != nil {
			return err
		}
		var err error
		session, err = getWorkoutSession(ctx, tx, userID, planID, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateWorkoutSession writes the timestamps the input sets, nulls included,
// keeps the others and upserts the given exercises by plan exercise id.
func (db *DB) UpdateWorkoutSession(ctx context.Context, userID, planID, sessionID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error) {
	var session *models.WorkoutSession
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if err := ownsPlan(ctx, tx, userID, planID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE workout_sessions SET
				scheduled_at = CASE WHEN $6::boolean THEN $3::timestamptz ELSE scheduled_at END,
				started_at   = CASE WHEN $7::boolean THEN $4::timestamptz ELSE started_at END,
				completed_at = CASE WHEN $8::boolean THEN $5::timestamptz ELSE completed_at END
			WHERE id = $1 AND workout_plan_id = $2
		`, sessionID, planID,
			models.TimeOrNil(in.ScheduledAt), models.TimeOrNil(in.StartedAt), models.TimeOrNil(in.CompletedAt),
			in.Sets(models.FieldScheduledAt), in.Sets(models.FieldStartedAt), in.Sets(models.FieldCompletedAt))
		if err != nil {
			return fmt.Errorf("updating workout session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if err := upsertSessionExercises(ctx, tx, planID, sessionID, in.Exercises); err != nil {
			return err
		}
		session, err = getWorkoutSession(ctx, tx, userID, planID, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteWorkoutSession removes a session and its exercise records.
func (db *DB) DeleteWorkoutSession(ctx context.Context, userID, planID, sessionID int) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM workout_sessions ws
		USING workout_plans wp
		WHERE ws.id = $1 AND ws.workout_plan_id = $2
		  AND wp.id = ws.workout_plan_id AND wp.user_id = $3
	`, sessionID, planID, userID)
	if err != nil {
		return fmt.Errorf("deleting workout session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func ownsPlan(ctx context.Context, q querier, userID, planID int) error {
	var id int
	err := q.QueryRow(ctx,
		`SELECT id FROM workout_plans WHERE id = $1 AND user_id = $2`, planID, userID,
	).Scan(&id)
	if err != nil {
		return notFound(err, "querying workout plan")
	}
	return nil
}

func getWorkoutSession(ctx context.Context, q querier, userID, planID, sessionID int) (*models.WorkoutSession, error) {
	var (
		s                            models.WorkoutSession
		scheduled, started, complete *time.Time
	)
	err := q.QueryRow(ctx, `
		SELECT ws.id, ws.workout_plan_id, ws.scheduled_at, ws.started_at, ws.completed_at
		FROM workout_sessions ws
		JOIN workout_plans wp ON wp.id = ws.workout_plan_id
		WHERE ws.id = $1 AND ws.workout_plan_id = $2 AND wp.user_id = $3
	`, sessionID, planID, userID).Scan(&s.ID, &s.WorkoutPlanID, &scheduled, &started, &complete)
	if err != nil {
		return nil, notFound(err, "querying workout session")
	}
	s.ScheduledAt = models.TimestampOrNil(scheduled)
	s.StartedAt = models.TimestampOrNil(started)
	s.CompletedAt = models.TimestampOrNil(complete)

	rows, err := q.Query(ctx, `
		SELECT id, workout_plan_exercise_id, actual_sets, actual_reps, actual_weight, notes
		FROM session_exercises WHERE workout_session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	defer rows.Close()

	s.Exercises = []models.SessionExercise{}
	for rows.Next() {
		var se models.SessionExercise
		if err := rows.Scan(&se.ID, &se.WorkoutPlanExerciseID, &se.ActualSets, &se.ActualReps, &se.ActualWeight, &se.Notes); err != nil {
			return nil, fmt.Errorf("scanning session exercise: %w", err)
		}
		s.Exercises = append(s.Exercises, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session exercises: %w", err)
	}
	return &s, nil
}

func upsertSessionExercises(ctx context.Context, q querier, planID, sessionID int, exercises []models.SessionExerciseInput) error {
	for _, ex := range exercises {
		var inPlan bool
		if err := q.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM workout_plan_exercises WHERE id = $1 AND workout_plan_id = $2
			)`, ex.WorkoutPlanExerciseID, planID,
		).Scan(&inPlan); err != nil {
			return fmt.Errorf("checking plan exercise %d: %w", ex.WorkoutPlanExerciseID, err)
		}
		if !inPlan {
			return &MissingExerciseError{ID: ex.WorkoutPlanExerciseID, Err: ErrExerciseNotInPlan}
		}

		_, err := q.Exec(ctx, `
			INSERT INTO session_exercises
				(workout_session_id, workout_plan_exercise_id, actual_sets, actual_reps, actual_weight, notes)
			VALUES ($1, $2, COALESCE($3::int, $7), COALESCE($4::int, $8), COALESCE($5::float8, $9), $6)
			ON CONFLICT (workout_session_id, workout_plan_exercise_id) DO UPDATE SET
				actual_sets   = COALESCE($3::int, session_exercises.actual_sets),
				actual_reps   = COALESCE($4::int, session_exercises.actual_reps),
				actual_weight = COALESCE($5::float8, session_exercises.actual_weight),
				notes         = COALESCE($6, session_exercises.notes)
		`, sessionID, ex.WorkoutPlanExerciseID, ex.ActualSets, ex.ActualReps, ex.ActualWeight, ex.Notes,
			models.DefaultSets, models.DefaultReps, models.DefaultWeight)
		if err != nil {
			return fmt.Errorf("upserting session exercise %d: %w", ex.WorkoutPlanExerciseID, err)
		}
	}
	return nil
}
