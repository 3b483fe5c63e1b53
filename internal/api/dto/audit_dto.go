package dto

import (
	"time"

	"github.com/spec-kit/asset-service/internal/domain"
)

// AuditEntryResponse serializes one trail entry.
type AuditEntryResponse struct {
	ID            string         `json:"id"`
	Action        string         `json:"action"`
	ActorID       string         `json:"actor_id"`
	ActorName     string         `json:"actor_name"`
	Details       string         `json:"details"`
	PreviousValue map[string]any `json:"previous_value,omitempty"`
	NewValue      map[string]any `json:"new_value,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewAuditEntryResponse maps one trail entry.
func NewAuditEntryResponse(entry domain.AuditTrail) AuditEntryResponse {
	return AuditEntryResponse{
		ID:            entry.ID,
		Action:        entry.Action,
		ActorID:       entry.ActorID,
		ActorName:     entry.ActorName,
		Details:       entry.Details,
		PreviousValue: entry.PreviousValue,
		NewValue:      entry.NewValue,
		CreatedAt:     entry.CreatedAt,
	}
}
