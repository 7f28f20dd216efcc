package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/report"
	"github.com/claude/workouttracker/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog with ids, names and categories."),
	mcp.WithString("category", mcp.Description("Only return exercises of this category (e.g. 'Strength', 'Bodyweight', 'Core')")),
)

var toolListWorkoutPlans = mcp.NewTool("list_workout_plans",
	mcp.WithDescription("List the user's workout plans with ids and names."),
)

var toolGetProgressReport = mcp.NewTool("get_progress_report",
	mcp.WithDescription("Progress report for a workout plan: every session with its performed exercises, the completion summary (total sessions, completion rate in percent, last completion time) and personal bests per exercise."),
	mcp.WithNumber("plan_id", mcp.Required(), mcp.Description("Workout plan ID (see list_workout_plans)")),
)

var toolGetPersonalBests = mcp.NewTool("get_personal_bests",
	mcp.WithDescription("Personal bests per exercise for a workout plan: the record with the heaviest weight, the most reps and the most sets, each chosen independently."),
	mcp.WithNumber("plan_id", mcp.Required(), mcp.Description("Workout plan ID")),
	mcp.WithString("exercise", mcp.Description("Only return this exercise (case-insensitive name match)")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if category := req.GetString("category", ""); category != "" {
		filtered := exercises[:0:0]
		for _, e := range exercises {
			if e.Category != nil && strings.EqualFold(*e.Category, category) {
				filtered = append(filtered, e)
			}
		}
		exercises = filtered
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkoutPlans(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.ds.ListWorkoutPlans(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_workout_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plans)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// progressReport is the aggregated view plus the sessions it was computed from.
type progressReport struct {
	report.Result
	Sessions []models.ReportSession `json:"workout_plan_sessions"`
}

// loadReport fetches a plan's report payload. On failure the second return
// value is the tool error to hand back.
func (h *handlers) loadReport(ctx context.Context, req mcp.CallToolRequest, tool string) (*models.WorkoutPlanReport, *mcp.CallToolResult) {
	planID, err := req.RequireInt("plan_id")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	rep, err := h.ds.GetWorkoutPlanReport(ctx, UserIDFromContext(ctx), planID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, mcp.NewToolResultError("workout plan not found")
	}
	if err != nil {
		h.log.Error("mcp "+tool, "plan_id", planID, "error", err)
		return nil, mcp.NewToolResultError("query failed: " + err.Error())
	}
	rep.Normalize()
	return rep, nil
}

func (h *handlers) getProgressReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, errResult := h.loadReport(ctx, req, "get_progress_report")
	if errResult != nil {
		return errResult, nil
	}

	result, err := mcp.NewToolResultJSON(progressReport{Result: report.Build(*rep), Sessions: rep.Sessions})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalBests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, errResult := h.loadReport(ctx, req, "get_personal_bests")
	if errResult != nil {
		return errResult, nil
	}

	bests := report.ComputePersonalBests(*rep).All()
	if name := req.GetString("exercise", ""); name != "" {
		filtered := bests[:0:0]
		for _, pb := range bests {
			if strings.EqualFold(pb.ExerciseName, name) {
				filtered = append(filtered, pb)
			}
		}
		bests = filtered
	}

	result, err := mcp.NewToolResultJSON(bests)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
