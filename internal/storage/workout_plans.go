package storage

import (
	"context"
	"fmt"

	"github.com/claude/workouttracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MissingExerciseError reports an exercise reference that could not be
// resolved. Err is ErrExerciseNotFound or ErrExerciseNotInPlan.
type MissingExerciseError struct {
	ID  int
	Err error
}

func (e *MissingExerciseError) Error() string {
	return fmt.Sprintf("exercise %d: %v", e.ID, e.Err)
}

func (e *MissingExerciseError) Unwrap() error {
	return e.Err
}

// ListWorkoutPlans returns the user's plans without their exercises.
func (db *DB) ListWorkoutPlans(ctx context.Context, userID int) ([]models.WorkoutPlan, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM workout_plans WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout plans: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutPlan
	for rows.Next() {
		var p models.WorkoutPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetWorkoutPlan returns a plan with its exercises. Plans owned by other
// users are reported as ErrNotFound.
func (db *DB) GetWorkoutPlan(ctx context.Context, userID, planID int) (*models.WorkoutPlan, error) {
	return getWorkoutPlan(ctx, db.Pool, userID, planID)
}

// CreateWorkoutPlan inserts a plan and its exercises in one transaction.
func (db *DB) CreateWorkoutPlan(ctx context.Context, userID int, name string, exercises []models.PlanExerciseInput) (*models.WorkoutPlan, error) {
	var plan *models.WorkoutPlan
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		var planID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO workout_plans (user_id, name) VALUES ($1, $2) RETURNING id`,
			userID, name,
		).Scan(&planID); err != nil {
			return fmt.Errorf("inserting workout plan: %w", err)
		}
		if err := upsertPlanExercises(ctx, tx, planID, exercises); err != nil {
			return err
		}
		var err error
		plan, err = getWorkoutPlan(ctx, tx, userID, planID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdateWorkoutPlan renames a plan when name is non-nil and upserts the given
// exercises by exercise id.
func (db *DB) UpdateWorkoutPlan(ctx context.Context, userID, planID int, name *string, exercises []models.PlanExerciseInput) (*models.WorkoutPlan, error) {
	var plan *models.WorkoutPlan
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE workout_plans
			SET name = COALESCE($3, name), updated_at = NOW()
			WHERE id = $1 AND user_id = $2
		`, planID, userID, name)
		if err != nil {
			return fmt.Errorf("updating workout plan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if err := upsertPlanExercises(ctx, tx, planID, exercises); err != nil {
			return err
		}
		plan, err = getWorkoutPlan(ctx, tx, userID, planID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// DeleteWorkoutPlan removes a plan. Its exercises and sessions cascade.
func (db *DB) DeleteWorkoutPlan(ctx context.Context, userID, planID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_plans WHERE id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		return fmt.Errorf("deleting workout plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func getWorkoutPlan(ctx context.Context, q querier, userID, planID int) (*models.WorkoutPlan, error) {
	var p models.WorkoutPlan
	err := q.QueryRow(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM workout_plans WHERE id = $1 AND user_id = $2
	`, planID, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "querying workout plan")
	}

	p.Exercises, err = planExercises(ctx, q, planID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func planExercises(ctx context.Context, q querier, planID int) ([]models.PlanExercise, error) {
	rows, err := q.Query(ctx, `
		SELECT wpe.id, e.id, e.name, wpe.target_sets, wpe.target_reps, wpe.target_weight
		FROM workout_plan_exercises wpe
		JOIN exercises e ON e.id = wpe.exercise_id
		WHERE wpe.workout_plan_id = $1
		ORDER BY wpe.id
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying plan exercises: %w", err)
	}
	defer rows.Close()

	out := []models.PlanExercise{}
	for rows.Next() {
		var pe models.PlanExercise
		if err := rows.Scan(&pe.ID, &pe.ExerciseID, &pe.Name, &pe.TargetSets, &pe.TargetReps, &pe.TargetWeight); err != nil {
			return nil, fmt.Errorf("scanning plan exercise: %w", err)
		}
		out = append(out, pe)
	}
	return out, rows.Err()
}

// upsertPlanExercises inserts new plan exercises with defaults for missing
// targets, and updates only the provided targets of existing ones.
func upsertPlanExercises(ctx context.Context, q querier, planID int, exercises []models.PlanExerciseInput) error {
	for _, ex := range exercises {
		var exists bool
		if err := q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM exercises WHERE id = $1)`, ex.ExerciseID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking exercise %d: %w", ex.ExerciseID, err)
		}
		if !exists {
			return &MissingExerciseError{ID: ex.ExerciseID, Err: ErrExerciseNotFound}
		}

		_, err := q.Exec(ctx, `
			INSERT INTO workout_plan_exercises
				(workout_plan_id, exercise_id, target_sets, target_reps, target_weight)
			VALUES ($1, $2, COALESCE($3::int, $6), COALESCE($4::int, $7), COALESCE($5::float8, $8))
			ON CONFLICT (workout_plan_id, exercise_id) DO UPDATE SET
				target_sets   = COALESCE($3::int, workout_plan_exercises.target_sets),
				target_reps   = COALESCE($4::int, workout_plan_exercises.target_reps),
				target_weight = COALESCE($5::float8, workout_plan_exercises.target_weight)
		`, planID, ex.ExerciseID, ex.TargetSets, ex.TargetReps, ex.TargetWeight,
			models.DefaultSets, models.DefaultReps, models.DefaultWeight)
		if err != nil {
			return fmt.Errorf("upserting plan exercise %d: %w", ex.ExerciseID, err)
		}
	}
	return nil
}
