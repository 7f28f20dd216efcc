package mcp

import (
	"context"
	"errors"
	"net/http"

	"github.com/claude/workouttracker/internal/client"
	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/storage"
)

// HTTPClient implements DataSource on top of the REST API client. Used for
// stdio MCP mode where the binary runs locally and data lives on the server.
// The user is whoever the client's token belongs to, so userID arguments are
// ignored.
type HTTPClient struct {
	c *client.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient wraps an authenticated API client.
func NewHTTPClient(c *client.Client) *HTTPClient {
	return &HTTPClient{c: c}
}

func (h *HTTPClient) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return h.c.ListExercises(ctx)
}

func (h *HTTPClient) ListWorkoutPlans(ctx context.Context, _ int) ([]models.WorkoutPlan, error) {
	return h.c.ListWorkoutPlans(ctx)
}

func (h *HTTPClient) GetWorkoutPlanReport(ctx context.Context, _ int, planID int) (*models.WorkoutPlanReport, error) {
	rep, err := h.c.GetReport(ctx, planID)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, storage.ErrNotFound
	}
	return rep, err
}
