package dto

import (
	"time"

	"github.com/spec-kit/asset-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Priority    domain.TicketPriority `json:"priority"`
	AssetID     *string               `json:"asset_id"`
}

// TransitionTicketRequest payload.
type TransitionTicketRequest struct {
	Status     domain.TicketStatus `json:"status" validate:"required"`
	Resolution string              `json:"resolution"`
}

// RateTicketRequest payload.
type RateTicketRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body     string `json:"body" validate:"required"`
	Internal bool   `json:"internal"`
}

// TicketResponse serializes one ticket.
type TicketResponse struct {
	ID                  string                `json:"id"`
	TicketNumber        string                `json:"ticket_number"`
	RequesterID         string                `json:"requester_id"`
	RequesterName       string                `json:"requester_name"`
	AssigneeID          *string               `json:"assignee_id"`
	AssetID             *string               `json:"asset_id"`
	Title               string                `json:"title"`
	Description         string                `json:"description"`
	Status              domain.TicketStatus   `json:"status"`
	Priority            domain.TicketPriority `json:"priority"`
	SLAResponseTarget   time.Time             `json:"sla_response_target"`
	SLAResolutionTarget time.Time             `json:"sla_resolution_target"`
	SLAResponse         domain.SLAOutcome     `json:"sla_response"`
	SLAResolution       domain.SLAOutcome     `json:"sla_resolution"`
	Resolution          *string               `json:"resolution"`
	Escalated           bool                  `json:"escalated"`
	Rating              *int                  `json:"rating"`
	RespondedAt         *time.Time            `json:"responded_at"`
	ResolvedAt          *time.Time            `json:"resolved_at"`
	ClosedAt            *time.Time            `json:"closed_at"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// TicketDetailResponse adds the comment thread.
type TicketDetailResponse struct {
	TicketResponse
	Comments []CommentResponse `json:"comments"`
}

// CommentResponse serializes one thread entry.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	Internal   bool      `json:"internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTicketResponse maps the domain model.
func NewTicketResponse(ticket *domain.ServiceTicket) TicketResponse {
	return TicketResponse{
		ID:                  ticket.ID,
		TicketNumber:        ticket.TicketNumber,
		RequesterID:         ticket.RequesterID,
		RequesterName:       ticket.RequesterName,
		AssigneeID:          ticket.AssigneeID,
		AssetID:             ticket.AssetID,
		Title:               ticket.Title,
		Description:         ticket.Description,
		Status:              ticket.Status,
		Priority:            ticket.Priority,
		SLAResponseTarget:   ticket.SLAResponseTarget,
		SLAResolutionTarget: ticket.SLAResolutionTarget,
		SLAResponse:         ticket.SLAResponse,
		SLAResolution:       ticket.SLAResolution,
		Resolution:          ticket.Resolution,
		Escalated:           ticket.Escalated,
		Rating:              ticket.Rating,
		RespondedAt:         ticket.RespondedAt,
		ResolvedAt:          ticket.ResolvedAt,
		ClosedAt:            ticket.ClosedAt,
		CreatedAt:           ticket.CreatedAt,
		UpdatedAt:           ticket.UpdatedAt,
	}
}

// NewCommentResponse maps a thread entry.
func NewCommentResponse(comment domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Body:       comment.Body,
		Internal:   comment.Internal,
		CreatedAt:  comment.CreatedAt,
	}
}
