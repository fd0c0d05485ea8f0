package service

import (
	"context"
	"sync"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const auditWriteTimeout = 5 * time.Second

// AuditServiceImpl writes audit entries in the background. Entries are always
// logged; they are persisted too when a repository is set.
type AuditServiceImpl struct {
	repo    ports.AuditRepository
	log     zerolog.Logger
	pending sync.WaitGroup
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, log: log}
}

// Log records entry without blocking the caller. Cancellation of ctx does
// not abort the write.
func (s *AuditServiceImpl) Log(ctx context.Context, entry *domain.AuditLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ev := s.log.Info().
			Str("action", string(entry.Action)).
			Str("resource_type", entry.ResourceType).
			Str("resource_id", entry.ResourceID).
			Str("ip", entry.IPAddress)
		if entry.UserID != nil {
			ev = ev.Str("user_id", entry.UserID.String())
		}
		ev.Msg("audit")

		if s.repo == nil {
			return
		}
		writeCtx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
		defer cancel()
		if err := s.repo.Create(writeCtx, entry); err != nil {
			s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
		}
	}()
}

// Wait blocks until queued entries are written or ctx is done.
func (s *AuditServiceImpl) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
