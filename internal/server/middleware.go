package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/workouttracker/internal/auth"
	"github.com/claude/workouttracker/internal/metrics"
	"github.com/claude/workouttracker/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// TokenCookie is the cookie carrying the session token for browsers.
const TokenCookie = "jwt_token"

type contextKey int

const (
	userKey contextKey = iota
	requestIDKey
)

// UserFromContext returns the authenticated user set by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// UserIDFromContext returns the authenticated user's ID, or 0 if none.
func UserIDFromContext(ctx context.Context) int {
	if u, ok := UserFromContext(ctx); ok {
		return u.ID
	}
	return 0
}

// RequestIDFromContext returns the ID assigned by RequestLogging.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// userLookup is the part of Store that Authenticate needs.
type userLookup interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

// tokenFromRequest prefers the Authorization bearer header and falls back to
// the session cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate returns middleware that verifies the request token and puts
// the user on the context. Unknown users are treated as invalid tokens.
func Authenticate(issuer *auth.Issuer, users userLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := issuer.Parse(tokenFromRequest(r))
			if errors.Is(err, auth.ErrMissingToken) {
				writeMessage(w, http.StatusUnauthorized, "Token is missing!")
				return
			}
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Token is invalid!")
				return
			}
			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Token is invalid!")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogging returns middleware that logs each request with an ID, which
// is also echoed in the X-Request-ID response header.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)
			ctx := context.WithValue(r.Context(), requestIDKey, reqID)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
				"request_id", reqID,
			)
		})
	}
}

// RequestMetrics returns middleware that records request counts, in-flight
// requests and latency per route pattern.
func RequestMetrics(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.GaugeRequests.Inc()
			defer m.GaugeRequests.Dec()

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}
			status := strconv.Itoa(sw.status)
			m.CounterRequests.With(prometheus.Labels{"method": r.Method, "status": status}).Inc()
			m.HistogramRequestDuration.WithLabelValues(route, r.Method, status).Observe(time.Since(start).Seconds())
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush lets streaming handlers such as the MCP transport flush through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
