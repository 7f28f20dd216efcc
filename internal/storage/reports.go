package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/workouttracker/internal/models"
)

// sessionRecord is a session exercise row tagged with its session id.
type sessionRecord struct {
	SessionID int
	Record    models.SessionExerciseRecord
}

// GetWorkoutPlanReport assembles the progress payload of a plan: its target
// exercises, and its sessions in id order each with its records in id order.
func (db *DB) GetWorkoutPlanReport(ctx context.Context, userID, planID int) (*models.WorkoutPlanReport, error) {
	report := &models.WorkoutPlanReport{ID: planID}
	err := db.Pool.QueryRow(ctx,
		`SELECT name FROM workout_plans WHERE id = $1 AND user_id = $2`, planID, userID,
	).Scan(&report.Name)
	if err != nil {
		return nil, notFound(err, "querying workout plan")
	}

	report.Exercises, err = planExercises(ctx, db.Pool, planID)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, scheduled_at, started_at, completed_at
		FROM workout_sessions WHERE workout_plan_id = $1
		ORDER BY id
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying report sessions: %w", err)
	}
	defer rows.Close()

	report.Sessions = []models.ReportSession{}
	for rows.Next() {
		var (
			s                            models.ReportSession
			scheduled, started, complete *time.Time
		)
		if err := rows.Scan(&s.ID, &scheduled, &started, &complete); err != nil {
			return nil, fmt.Errorf("scanning report session: %w", err)
		}
		s.ScheduledAt = models.TimestampOrNil(scheduled)
		s.StartedAt = models.TimestampOrNil(started)
		s.CompletedAt = models.TimestampOrNil(complete)
		report.Sessions = append(report.Sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report sessions: %w", err)
	}

	records, err := db.reportRecords(ctx, planID)
	if err != nil {
		return nil, err
	}
	attachRecords(report.Sessions, records)
	report.Normalize()
	return report, nil
}

func (db *DB) reportRecords(ctx context.Context, planID int) ([]sessionRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT se.workout_session_id, se.id, se.workout_plan_exercise_id, e.name,
		       se.actual_sets, se.actual_reps, se.actual_weight, se.notes
		FROM session_exercises se
		JOIN workout_sessions ws ON ws.id = se.workout_session_id
		JOIN workout_plan_exercises wpe ON wpe.id = se.workout_plan_exercise_id
		JOIN exercises e ON e.id = wpe.exercise_id
		WHERE ws.workout_plan_id = $1
		ORDER BY se.workout_session_id, se.id
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying report records: %w", err)
	}
	defer rows.Close()

	var out []sessionRecord
	for rows.Next() {
		var sr sessionRecord
		r := &sr.Record
		if err := rows.Scan(&sr.SessionID, &r.ID, &r.WorkoutPlanExerciseID, &r.ExerciseName,
			&r.ActualSets, &r.ActualReps, &r.ActualWeight, &r.Notes); err != nil {
			return nil, fmt.Errorf("scanning report record: %w", err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// attachRecords appends each record to the session with its id, preserving
// record order. Records of unknown sessions are dropped.
func attachRecords(sessions []models.ReportSession, records []sessionRecord) {
	idx := make(map[int]int, len(sessions))
	for i, s := range sessions {
		idx[s.ID] = i
	}
	for _, rec := range records {
		i, ok := idx[rec.SessionID]
		if !ok {
			continue
		}
		sessions[i].Exercises = append(sessions[i].Exercises, rec.Record)
	}
}
