// Package client talks to the workouttracker REST API and keeps the CLI's
// login session on disk.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/claude/workouttracker/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client calls the REST API. Each method makes a single request and never
// retries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client for the given base URL, e.g. http://localhost:8080.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// errorBody covers both error shapes the server produces.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func apiError(status int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &APIError{Status: status, Message: strings.TrimSpace(string(body))}
	}
	if eb.Message != "" {
		return &APIError{Status: status, Message: eb.Message}
	}
	keys := make([]string, 0, len(eb.Errors))
	for k := range eb.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, eb.Errors[k])
	}
	return &APIError{Status: status, Message: strings.Join(msgs, "; ")}
}

// do sends a request with an optional JSON body and decodes a JSON answer
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// LoginResult is the token handed out at login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, surname, email, password string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/signup", map[string]string{
		"name": name, "surname": surname, "email": email, "password": password,
	}, nil)
}

// Login exchanges credentials for a token. The token is not stored on the
// client; call SetToken to use it.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout tells the server to drop the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListExercises returns the exercise catalog.
func (c *Client) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var out []models.Exercise
	if err := c.do(ctx, http.MethodGet, "/v1/exercises", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWorkoutPlans returns the user's plans.
func (c *Client) ListWorkoutPlans(ctx context.Context) ([]models.WorkoutPlan, error) {
	var out []models.WorkoutPlan
	if err := c.do(ctx, http.MethodGet, "/v1/workout-plans", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkoutPlan returns a plan with its exercises.
func (c *Client) GetWorkoutPlan(ctx context.Context, planID int) (*models.WorkoutPlan, error) {
	var p models.WorkoutPlan
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/workout-plans/%d", planID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateWorkoutPlan creates a plan.
func (c *Client) CreateWorkoutPlan(ctx context.Context, in models.WorkoutPlanInput) (*models.WorkoutPlan, error) {
	var p models.WorkoutPlan
	if err := c.do(ctx, http.MethodPost, "/v1/workout-plans", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListWorkoutSessions returns all of the user's sessions.
func (c *Client) ListWorkoutSessions(ctx context.Context) ([]models.SessionListItem, error) {
	var out []models.SessionListItem
	if err := c.do(ctx, http.MethodGet, "/v1/workout-sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWorkoutSession logs a session against a plan.
func (c *Client) CreateWorkoutSession(ctx context.Context, planID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/workout-sessions/%d", planID), in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateWorkoutSession updates the provided fields of a session.
func (c *Client) UpdateWorkoutSession(ctx context.Context, planID, sessionID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	path := fmt.Sprintf("/v1/workout-sessions/%d/%d", planID, sessionID)
	if err := c.do(ctx, http.MethodPatch, path, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetReport fetches the progress payload of a plan. Missing sequences in the
// answer are replaced with empty ones.
func (c *Client) GetReport(ctx context.Context, planID int) (*models.WorkoutPlanReport, error) {
	var r models.WorkoutPlanReport
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/reports/workout-plan/%d", planID), nil, &r); err != nil {
		return nil, err
	}
	r.Normalize()
	return &r, nil
}
