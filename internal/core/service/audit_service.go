package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
	"github.com/inkwell/blog-api/internal/pkg/metrics"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService writing to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single auth event to the audit trail.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	start := time.Now()
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditErrorsTotal.Inc()
		return fmt.Errorf("process audit event: %w", err)
	}
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	metrics.AuthEventsTotal.WithLabelValues(string(event.Type)).Inc()

	s.log.Debug().
		Str("event", string(event.Type)).
		Str("user_id", event.UserID).
		Msg("audit event recorded")

	return nil
}
