package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful account actions that services do not audit
// themselves. Routes are matched by their registered pattern.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		action, resourceType := mapRouteToAction(c.Request.Method, c.FullPath())
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if id, ok := UserID(c); ok {
			userID = &id
		}

		details, _ := json.Marshal(map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"user_agent": c.Request.UserAgent(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapRouteToAction(method, route string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/auth/register":
		return domain.AuditActionRegister, "user"
	case "/api/v1/auth/login":
		return domain.AuditActionLogin, "session"
	}
	return "", ""
}
