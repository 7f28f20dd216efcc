package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's training data.
type DataStats struct {
	TotalPlans        int64          `json:"total_workout_plans"`
	TotalSessions     int64          `json:"total_sessions"`
	CompletedSessions int64          `json:"completed_sessions"`
	TotalRecords      int64          `json:"total_exercise_records"`
	FirstActivity     *time.Time     `json:"first_activity"`
	LastActivity      *time.Time     `json:"last_activity"`
	TopExercises      []ExerciseStat `json:"top_exercises"`
}

// ExerciseStat counts how often an exercise was performed.
type ExerciseStat struct {
	Name      string  `json:"name"`
	Count     int64   `json:"count"`
	MaxWeight float64 `json:"max_weight"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_plans WHERE user_id = $1`, userID,
	).Scan(&stats.TotalPlans)
	if err != nil {
		return nil, fmt.Errorf("counting workout plans: %w", err)
	}

	// Sessions, completions and the activity range in one pass
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(ws.completed_at),
		       MIN(COALESCE(ws.started_at, ws.scheduled_at)),
		       MAX(COALESCE(ws.completed_at, ws.started_at, ws.scheduled_at))
		FROM workout_sessions ws
		JOIN workout_plans wp ON wp.id = ws.workout_plan_id
		WHERE wp.user_id = $1
	`, userID).Scan(&stats.TotalSessions, &stats.CompletedSessions, &stats.FirstActivity, &stats.LastActivity)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM session_exercises se
		JOIN workout_sessions ws ON ws.id = se.workout_session_id
		JOIN workout_plans wp ON wp.id = ws.workout_plan_id
		WHERE wp.user_id = $1
	`, userID).Scan(&stats.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("counting exercise records: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT e.name, COUNT(*), MAX(se.actual_weight)
		FROM session_exercises se
		JOIN workout_sessions ws ON ws.id = se.workout_session_id
		JOIN workout_plans wp ON wp.id = ws.workout_plan_id
		JOIN workout_plan_exercises wpe ON wpe.id = se.workout_plan_exercise_id
		JOIN exercises e ON e.id = wpe.exercise_id
		WHERE wp.user_id = $1
		GROUP BY e.name
		ORDER BY COUNT(*) DESC, e.name
		LIMIT 10
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying top exercises: %w", err)
	}
	defer rows.Close()

	stats.TopExercises = []ExerciseStat{}
	for rows.Next() {
		var es ExerciseStat
		if err := rows.Scan(&es.Name, &es.Count, &es.MaxWeight); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.TopExercises = append(stats.TopExercises, es)
	}
	return stats, rows.Err()
}
