package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/repository"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

// TicketService coordinates the service ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.TicketCommentRepository
	counters   repository.CounterRepository
	audit      *AuditRecorder
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.TicketCommentRepository
	CounterRepo repository.CounterRepository
	Audit       *AuditRecorder
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	AssetID     *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		counters:   deps.CounterRepo,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
	}
}

// allowedTransitions is the full lifecycle table. CLOSED has no outbound
// transitions; RESOLVED -> IN_PROGRESS is the reopen path.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:         {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress:   {domain.TicketStatusWaitingParts, domain.TicketStatusResolved},
	domain.TicketStatusWaitingParts: {domain.TicketStatusInProgress},
	domain.TicketStatusResolved:     {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:       {},
}

// IsValidTransition reports whether current -> next is in the table.
func IsValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CreateTicket registers a ticket for a requester, allocating a ticket
// number and stamping SLA targets from the priority table.
func (s *TicketService) CreateTicket(ctx context.Context, requester events.Actor, input TicketCreateInput) (*domain.ServiceTicket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	priority := input.Priority
	if _, ok := slaMatrix[priority]; !ok {
		priority = domain.TicketPriorityMedium
	}

	now := time.Now()
	year := now.Year()
	number, err := s.counters.AllocateNext(ctx,
		fmt.Sprintf("ticket_%d", year),
		fmt.Sprintf("TKT-%d", year),
		4,
	)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	targets := ComputeSLATargets(priority, now)
	ticket := &domain.ServiceTicket{
		TicketNumber:        number,
		RequesterID:         requester.UserID,
		RequesterName:       requester.Name,
		AssetID:             input.AssetID,
		Title:               title,
		Description:         strings.TrimSpace(input.Description),
		Status:              domain.TicketStatusOpen,
		Priority:            priority,
		SLAResponseTarget:   targets.ResponseTarget,
		SLAResolutionTarget: targets.ResolutionTarget,
		SLAResponse:         domain.SLAPending,
		SLAResolution:       domain.SLAPending,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityTicket, ticket.ID, "ticket_created", requester,
		fmt.Sprintf("ticket %s created", ticket.TicketNumber),
		nil,
		map[string]any{"status": ticket.Status, "priority": ticket.Priority},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		EntityID: ticket.ID,
		Actor:    requester,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			RequesterID:  ticket.RequesterID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// Transition validates and applies a status change, stamping timestamps
// and SLA outcomes as side effects. Invalid transitions are rejected with
// no state change.
func (s *TicketService) Transition(ctx context.Context, actor events.Actor, ticketID string, newStatus domain.TicketStatus, resolution string) (*domain.ServiceTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	oldResolution := ticket.Resolution
	if err := applyTransition(ticket, newStatus, resolution, time.Now()); err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	previous := map[string]any{"status": oldStatus}
	next := map[string]any{"status": newStatus}
	if oldResolution != nil {
		previous["resolution"] = *oldResolution
	}
	if ticket.Resolution != nil {
		next["resolution"] = *ticket.Resolution
	}
	s.audit.Record(ctx, domain.AuditEntityTicket, ticket.ID, "ticket_status_changed", actor,
		fmt.Sprintf("%s -> %s", oldStatus, newStatus), previous, next)

	resolutionText := ""
	if ticket.Resolution != nil {
		resolutionText = *ticket.Resolution
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		EntityID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: ticket.TicketNumber,
			RequesterID:  ticket.RequesterID,
			OldStatus:    oldStatus,
			NewStatus:    newStatus,
			Resolution:   resolutionText,
		},
	})
	return ticket, nil
}

// applyTransition mutates the ticket in place per the lifecycle rules.
// It is the pure core of Transition: no I/O, deterministic given now.
func applyTransition(ticket *domain.ServiceTicket, newStatus domain.TicketStatus, resolution string, now time.Time) error {
	if !IsValidTransition(ticket.Status, newStatus) {
		return apperrors.NewValidationError(
			fmt.Sprintf("invalid status transition: %s -> %s", ticket.Status, newStatus),
			map[string]any{"current_status": ticket.Status, "requested_status": newStatus},
		)
	}

	switch newStatus {
	case domain.TicketStatusInProgress:
		if ticket.Status == domain.TicketStatusOpen {
			ticket.RespondedAt = &now
			ticket.SLAResponse = slaOutcome(now, ticket.SLAResponseTarget)
		}
		if ticket.Status == domain.TicketStatusResolved {
			// reopen: undo resolution state
			ticket.ResolvedAt = nil
			ticket.ClosedAt = nil
			ticket.SLAResolution = domain.SLAPending
			ticket.Resolution = nil
		}
	case domain.TicketStatusResolved:
		text := strings.TrimSpace(resolution)
		if text == "" {
			return apperrors.NewValidationError("resolution required to resolve ticket", nil)
		}
		ticket.ResolvedAt = &now
		ticket.Resolution = &text
		ticket.SLAResolution = slaOutcome(now, ticket.SLAResolutionTarget)
	case domain.TicketStatusClosed:
		ticket.ClosedAt = &now
	}

	ticket.Status = newStatus
	return nil
}

// Escalate sets the one-way escalation flag. Already escalated tickets
// are left untouched.
func (s *TicketService) Escalate(ctx context.Context, actor events.Actor, ticket *domain.ServiceTicket) error {
	if ticket.Escalated {
		return nil
	}
	ticket.Escalated = true
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityTicket, ticket.ID, "ticket_escalated", actor,
		fmt.Sprintf("ticket %s past resolution target", ticket.TicketNumber),
		map[string]any{"escalated": false},
		map[string]any{"escalated": true},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		EntityID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketEscalatedPayload{
			TicketNumber:     ticket.TicketNumber,
			Priority:         ticket.Priority,
			ResolutionTarget: ticket.SLAResolutionTarget,
		},
	})
	return nil
}

// RateTicket records a 1-5 satisfaction rating. Only the original
// requester may rate, and only once the ticket is closed.
func (s *TicketService) RateTicket(ctx context.Context, actor events.Actor, ticketID string, rating int) (*domain.ServiceTicket, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewValidationError("only closed tickets can be rated", nil)
	}
	if ticket.RequesterID != actor.UserID {
		return nil, apperrors.NewForbidden("only the requester may rate this ticket")
	}

	ticket.Rating = &rating
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, domain.AuditEntityTicket, ticket.ID, "ticket_rated", actor,
		fmt.Sprintf("rated %d/5", rating), nil, map[string]any{"rating": rating})
	return ticket, nil
}

// AddComment appends a thread entry. Internal notes are staff-only and
// hidden from the requester.
func (s *TicketService) AddComment(ctx context.Context, actor events.Actor, isStaff bool, ticketID, body string, internal bool) (*domain.TicketComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !isStaff {
		if ticket.RequesterID != actor.UserID {
			return nil, apperrors.NewForbidden("access denied")
		}
		if internal {
			return nil, apperrors.NewForbidden("internal notes are staff only")
		}
	}

	comment := &domain.TicketComment{
		TicketID:   ticket.ID,
		AuthorID:   actor.UserID,
		AuthorName: actor.Name,
		Body:       strings.TrimSpace(body),
		Internal:   internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// GetTicket fetches a ticket with its visible comment thread. Requesters
// only see their own tickets and never internal notes.
func (s *TicketService) GetTicket(ctx context.Context, actor events.Actor, isStaff bool, ticketID string) (*domain.ServiceTicket, []domain.TicketComment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if !isStaff && ticket.RequesterID != actor.UserID {
		return nil, nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if !isStaff {
		visible := make([]domain.TicketComment, 0, len(comments))
		for _, comment := range comments {
			if comment.Internal {
				continue
			}
			visible = append(visible, comment)
		}
		comments = visible
	}
	return ticket, comments, nil
}

// ListTickets returns tickets for the caller. Non-staff callers are
// scoped to their own tickets regardless of the filter.
func (s *TicketService) ListTickets(ctx context.Context, actor events.Actor, isStaff bool, filter repository.TicketFilter) ([]domain.ServiceTicket, error) {
	if !isStaff {
		requesterID := actor.UserID
		filter.RequesterID = &requesterID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
