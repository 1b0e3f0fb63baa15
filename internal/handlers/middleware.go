package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"freelance-rate-engine/internal/models"
	"freelance-rate-engine/internal/services/auth"
	"freelance-rate-engine/internal/utils"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// Middleware bundles the request middlewares that need the auth service.
type Middleware struct {
	auth *auth.Service
}

// NewMiddleware creates the middleware set.
func NewMiddleware(authSvc *auth.Service) *Middleware {
	return &Middleware{auth: authSvc}
}

// UserID extracts the authenticated user id from the request context.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Role extracts the authenticated user role from the request context.
func Role(ctx context.Context) (models.UserRole, bool) {
	role, ok := ctx.Value(roleKey).(models.UserRole)
	return role, ok
}

// RequireAuth verifies the Bearer token and stores the caller's identity
// in the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			writeJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "missing bearer token"})
			return
		}

		userID, role, err := m.auth.ParseToken(tokenString)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, roleKey, role)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin verifies the token and additionally requires the admin role.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		role, ok := Role(r.Context())
		if !ok || role != models.RoleAdmin {
			writeJSON(w, http.StatusForbidden, Response{Success: false, Error: "admin access required"})
			return
		}
		next(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with method, path, status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		utils.GetLogger().Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
