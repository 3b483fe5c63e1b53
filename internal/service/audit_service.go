package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/repository"
)

// AuditRecorder appends immutable audit entries describing state changes.
// Writes are best-effort: a failed write is logged and never fails the
// primary mutation they describe.
type AuditRecorder struct {
	entries repository.AuditTrailRepository
	logger  *zap.Logger
}

// NewAuditRecorder builds the recorder.
func NewAuditRecorder(entries repository.AuditTrailRepository, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{entries: entries, logger: logger}
}

// Record appends one entry. previous and next may be nil for actions that
// do not capture a field delta.
func (a *AuditRecorder) Record(ctx context.Context, entityType domain.AuditEntityType, entityID, action string, actor events.Actor, details string, previous, next map[string]any) {
	if a == nil || a.entries == nil {
		return
	}
	entry := &domain.AuditTrail{
		EntityID:      entityID,
		EntityType:    entityType,
		Action:        action,
		ActorID:       actor.UserID,
		ActorName:     actor.Name,
		Details:       details,
		PreviousValue: previous,
		NewValue:      next,
	}
	if err := a.entries.Create(ctx, entry); err != nil {
		a.logger.Error("audit write failed",
			zap.String("entity_type", string(entityType)),
			zap.String("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
