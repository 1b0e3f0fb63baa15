package handlers

import (
	"net/http"
	"time"

	"freelance-rate-engine/internal/services/database"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports overall status. Database failures degrade the status
// but still answer 200 so load balancers see the process is alive.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "connected"
	if err := h.db.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
