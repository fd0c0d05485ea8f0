package postgres

import (
	"context"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	var details *string
	if log.Details != "" {
		details = &log.Details
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.UserID, string(log.Action), log.ResourceType,
		log.ResourceID, details, log.IPAddress, log.CreatedAt,
	)
	return err
}
