package events

import (
	"time"

	"github.com/spec-kit/asset-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAssetCreated         EventType = "asset_created"
	EventAssetAssigned        EventType = "asset_assigned"
	EventAssetStatusChanged   EventType = "asset_status_changed"
	EventTicketCreated        EventType = "ticket_created"
	EventTicketStatusChanged  EventType = "ticket_status_changed"
	EventTicketEscalated      EventType = "ticket_escalated"
	EventLicenseAllocated     EventType = "license_allocated"
	EventSubscriptionExpiring EventType = "subscription_expiring"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

// SystemActor marks mutations performed by externally triggered sweeps.
var SystemActor = Actor{UserID: "system", Name: "System"}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AssetAssignedPayload payload.
type AssetAssignedPayload struct {
	AssetCode  string `json:"asset_code"`
	AssetName  string `json:"asset_name"`
	AssigneeID string `json:"assignee_id"`
}

// AssetStatusChangedPayload payload.
type AssetStatusChangedPayload struct {
	AssetCode string             `json:"asset_code"`
	OldStatus domain.AssetStatus `json:"old_status"`
	NewStatus domain.AssetStatus `json:"new_status"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	RequesterID  string                `json:"requester_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	RequesterID  string              `json:"requester_id"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	Resolution   string              `json:"resolution,omitempty"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	TicketNumber     string                `json:"ticket_number"`
	Priority         domain.TicketPriority `json:"priority"`
	ResolutionTarget time.Time             `json:"resolution_target"`
}

// LicenseAllocatedPayload payload.
type LicenseAllocatedPayload struct {
	SubscriptionName string `json:"subscription_name"`
	UserID           string `json:"user_id"`
}

// SubscriptionExpiringPayload payload.
type SubscriptionExpiringPayload struct {
	SubscriptionName string    `json:"subscription_name"`
	ExpiryDate       time.Time `json:"expiry_date"`
	MilestoneDays    int       `json:"milestone_days"`
}
