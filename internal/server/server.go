package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/workouttracker/internal/auth"
	"github.com/claude/workouttracker/internal/metrics"
	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the persistence the handlers need. *storage.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, surname, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)

	ListExercises(ctx context.Context) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id int) (*models.Exercise, error)

	ListWorkoutPlans(ctx context.Context, userID int) ([]models.WorkoutPlan, error)
	GetWorkoutPlan(ctx context.Context, userID, planID int) (*models.WorkoutPlan, error)
	CreateWorkoutPlan(ctx context.Context, userID int, name string, exercises []models.PlanExerciseInput) (*models.WorkoutPlan, error)
	UpdateWorkoutPlan(ctx context.Context, userID, planID int, name *string, exercises []models.PlanExerciseInput) (*models.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, userID, planID int) error

	ListWorkoutSessions(ctx context.Context, userID int) ([]models.SessionListItem, error)
	GetWorkoutSession(ctx context.Context, userID, planID, sessionID int) (*models.WorkoutSession, error)
	CreateWorkoutSession(ctx context.Context, userID, planID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error)
	UpdateWorkoutSession(ctx context.Context, userID, planID, sessionID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error)
	DeleteWorkoutSession(ctx context.Context, userID, planID, sessionID int) error

	GetWorkoutPlanReport(ctx context.Context, userID, planID int) (*models.WorkoutPlanReport, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

var _ Store = (*storage.DB)(nil)

// Options carries optional server settings.
type Options struct {
	BcryptCost   int
	SecureCookie bool
	// Metrics enables request instrumentation when set.
	Metrics *metrics.Manager
	// Gatherer is exposed on /metrics when set.
	Gatherer prometheus.Gatherer
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	issuer *auth.Issuer
	opts   Options
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, issuer *auth.Issuer, opts Options, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		issuer: issuer,
		opts:   opts,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	if s.opts.Metrics != nil {
		s.router.Use(RequestMetrics(s.opts.Metrics))
	}
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	if s.opts.Gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(s.issuer, s.store))

			r.Get("/auth/me", s.handleMe)
			r.Get("/stats", s.handleStats)

			r.Get("/exercises", s.handleListExercises)
			r.Get("/exercises/{id}", s.handleGetExercise)

			r.Get("/workout-plans", s.handleListPlans)
			r.Post("/workout-plans", s.handleCreatePlan)
			r.Get("/workout-plans/{planID}", s.handleGetPlan)
			r.Patch("/workout-plans/{planID}", s.handleUpdatePlan)
			r.Delete("/workout-plans/{planID}", s.handleDeletePlan)

			r.Get("/workout-sessions", s.handleListSessions)
			r.Post("/workout-sessions/{planID}", s.handleCreateSession)
			r.Get("/workout-sessions/{planID}/{sessionID}", s.handleGetSession)
			r.Patch("/workout-sessions/{planID}/{sessionID}", s.handleUpdateSession)
			r.Delete("/workout-sessions/{planID}/{sessionID}", s.handleDeleteSession)

			r.Get("/reports/workout-plan/{planID}", s.handleReport)
			r.Get("/reports/workout-plan/{planID}/summary", s.handleReportSummary)
		})
	})
}

// SetMCP mounts an MCP transport handler at /mcp behind token auth.
// The handler sees the caller's user ID via UserIDFromContext.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(Authenticate(s.issuer, s.store)).Handle("/mcp", h)
}
