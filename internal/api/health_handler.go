package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/insulindose/interest-api/internal/pkg/httputil"
)

// HealthStatus represents the overall health of the service.
type HealthStatus struct {
	Status string                    `json:"status"` // "healthy", "degraded", "unhealthy"
	Uptime string                    `json:"uptime"`
	Checks map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single dependency.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "degraded"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthChecker reports service health. The database is the only hard
// dependency; the verification and email services are best-effort
// collaborators and are not probed.
type HealthChecker struct {
	db        *sql.DB
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker. db may be nil, which reports
// "not configured".
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db, startTime: time.Now()}
}

// HandleHealth returns the health status. Always 200; the status field in
// the body conveys health.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbCheck := hc.checkDatabase(r.Context())

	overall := "healthy"
	switch dbCheck.Status {
	case "down":
		overall = "unhealthy"
	case "degraded":
		overall = "degraded"
	}

	httputil.OK(w, HealthStatus{
		Status: overall,
		Uptime: time.Since(hc.startTime).Round(time.Second).String(),
		Checks: map[string]ComponentCheck{"database": dbCheck},
	})
}

// HandleLiveness always returns 200 while the process runs, for
// container liveness probes.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "alive"})
}

// checkDatabase pings PostgreSQL with a 3-second timeout.
func (hc *HealthChecker) checkDatabase(ctx context.Context) ComponentCheck {
	if hc.db == nil {
		return ComponentCheck{Status: "down", Message: "not configured"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := hc.db.PingContext(pingCtx)
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	status := "up"
	msg := "connected"
	if latency > time.Second {
		status = "degraded"
		msg = fmt.Sprintf("slow response (%s)", latency)
	}
	return ComponentCheck{Status: status, Latency: latency.String(), Message: msg}
}
