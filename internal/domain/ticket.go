package domain

import "time"

// TicketStatus enumerates lifecycle states for service tickets.
type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "OPEN"
	TicketStatusInProgress   TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingParts TicketStatus = "WAITING_PARTS"
	TicketStatusResolved     TicketStatus = "RESOLVED"
	TicketStatusClosed       TicketStatus = "CLOSED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "CRITICAL"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityLow      TicketPriority = "LOW"
)

// SLAOutcome tracks whether an SLA target was met. PENDING until the
// corresponding transition happens.
type SLAOutcome string

const (
	SLAPending  SLAOutcome = "PENDING"
	SLAMet      SLAOutcome = "MET"
	SLABreached SLAOutcome = "BREACHED"
)

// ServiceTicket is the aggregate for helpdesk requests.
type ServiceTicket struct {
	ID                  string
	TicketNumber        string
	RequesterID         string
	RequesterName       string
	AssigneeID          *string
	AssetID             *string
	Title               string
	Description         string
	Status              TicketStatus
	Priority            TicketPriority
	SLAResponseTarget   time.Time
	SLAResolutionTarget time.Time
	SLAResponse         SLAOutcome
	SLAResolution       SLAOutcome
	Resolution          *string
	Escalated           bool
	Rating              *int
	RespondedAt         *time.Time
	ResolvedAt          *time.Time
	ClosedAt            *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TicketComment is a thread entry on a ticket.
type TicketComment struct {
	ID         string
	TicketID   string
	AuthorID   string
	AuthorName string
	Body       string
	Internal   bool
	CreatedAt  time.Time
}
