package handler

import (
	"net/http"
	"time"

	"offerwall-rewards/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. It pings every dependency and answers
// 503 when any of them fails.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps := make(map[string]dependencyStatus, len(checkers))
		healthy := true

		for _, checker := range checkers {
			start := time.Now()
			err := checker.Ping(c.Request.Context())
			st := dependencyStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status = "unhealthy"
				st.Error = err.Error()
				healthy = false
			}
			deps[checker.Name()] = st
		}

		status, code := "healthy", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":       status,
			"dependencies": deps,
			"checked_at":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
