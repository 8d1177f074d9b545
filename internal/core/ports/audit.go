package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// AuditRepository persists auth events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService processes a single auth event taken off the queue.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditSink accepts auth events for asynchronous persistence. Enqueue never
// blocks the caller.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
