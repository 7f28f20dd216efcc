package storage

import (
	"context"
	"fmt"

	"github.com/claude/workouttracker/internal/models"
)

// ListExercises returns the catalog ordered by id. Only id, name and
// category are filled in.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name, category FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetExercise returns one catalog entry with all details.
func (db *DB) GetExercise(ctx context.Context, id int) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, description, category, muscle_group
		FROM exercises WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.Description, &e.Category, &e.MuscleGroup)
	if err != nil {
		return nil, notFound(err, "querying exercise")
	}
	return &e, nil
}
