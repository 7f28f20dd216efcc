package mcp

import (
	"context"

	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	ListWorkoutPlans(ctx context.Context, userID int) ([]models.WorkoutPlan, error)
	GetWorkoutPlanReport(ctx context.Context, userID, planID int) (*models.WorkoutPlanReport, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
