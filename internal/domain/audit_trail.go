package domain

import "time"

// AuditEntityType labels which aggregate an audit entry belongs to.
type AuditEntityType string

const (
	AuditEntityAsset        AuditEntityType = "ASSET"
	AuditEntityTicket       AuditEntityType = "SERVICE_TICKET"
	AuditEntitySubscription AuditEntityType = "SUBSCRIPTION"
	AuditEntityUser         AuditEntityType = "USER"
)

// AuditTrail is an immutable append-only record of a state change.
// Entries are never updated or deleted.
type AuditTrail struct {
	ID            string
	EntityID      string
	EntityType    AuditEntityType
	Action        string
	ActorID       string
	ActorName     string
	Details       string
	PreviousValue map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
