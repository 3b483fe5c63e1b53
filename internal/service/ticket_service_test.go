package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/asset-service/internal/domain"
)

func newOpenTicket(createdAt time.Time) *domain.ServiceTicket {
	targets := ComputeSLATargets(domain.TicketPriorityHigh, createdAt)
	return &domain.ServiceTicket{
		ID:                  "t-1",
		TicketNumber:        "TKT-0001",
		RequesterID:         "u-1",
		Status:              domain.TicketStatusOpen,
		Priority:            domain.TicketPriorityHigh,
		SLAResponseTarget:   targets.ResponseTarget,
		SLAResolutionTarget: targets.ResolutionTarget,
		SLAResponse:         domain.SLAPending,
		SLAResolution:       domain.SLAPending,
		CreatedAt:           createdAt,
	}
}

func TestIsValidTransition(t *testing.T) {
	allowed := []struct{ from, to domain.TicketStatus }{
		{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		{domain.TicketStatusInProgress, domain.TicketStatusWaitingParts},
		{domain.TicketStatusInProgress, domain.TicketStatusResolved},
		{domain.TicketStatusWaitingParts, domain.TicketStatusInProgress},
		{domain.TicketStatusResolved, domain.TicketStatusClosed},
		{domain.TicketStatusResolved, domain.TicketStatusInProgress},
	}
	for _, tc := range allowed {
		assert.True(t, IsValidTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	rejected := []struct{ from, to domain.TicketStatus }{
		{domain.TicketStatusOpen, domain.TicketStatusResolved},
		{domain.TicketStatusOpen, domain.TicketStatusClosed},
		{domain.TicketStatusOpen, domain.TicketStatusWaitingParts},
		{domain.TicketStatusWaitingParts, domain.TicketStatusResolved},
		{domain.TicketStatusClosed, domain.TicketStatusInProgress},
		{domain.TicketStatusClosed, domain.TicketStatusOpen},
		{domain.TicketStatusInProgress, domain.TicketStatusOpen},
		{domain.TicketStatusInProgress, domain.TicketStatusInProgress},
	}
	for _, tc := range rejected {
		assert.False(t, IsValidTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplyTransitionStampsFirstResponse(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ticket := newOpenTicket(createdAt)

	now := createdAt.Add(30 * time.Minute) // inside the 1h response budget
	require.NoError(t, applyTransition(ticket, domain.TicketStatusInProgress, "", now))

	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	require.NotNil(t, ticket.RespondedAt)
	assert.Equal(t, now, *ticket.RespondedAt)
	assert.Equal(t, domain.SLAMet, ticket.SLAResponse)
	assert.Equal(t, domain.SLAPending, ticket.SLAResolution)
}

func TestApplyTransitionBreachedResponse(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ticket := newOpenTicket(createdAt)

	now := createdAt.Add(2 * time.Hour)
	require.NoError(t, applyTransition(ticket, domain.TicketStatusInProgress, "", now))

	assert.Equal(t, domain.SLABreached, ticket.SLAResponse)
}

func TestApplyTransitionResolveRequiresResolution(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ticket := newOpenTicket(createdAt)
	require.NoError(t, applyTransition(ticket, domain.TicketStatusInProgress, "", createdAt.Add(time.Minute)))

	err := applyTransition(ticket, domain.TicketStatusResolved, "   ", createdAt.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Nil(t, ticket.ResolvedAt)
}

func TestApplyTransitionResolveStampsOutcome(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ticket := newOpenTicket(createdAt)
	require.NoError(t, applyTransition(ticket, domain.TicketStatusInProgress, "", createdAt.Add(time.Minute)))

	now := createdAt.Add(2 * time.Hour) // inside the 8h resolution budget
	require.NoError(t, applyTransition(ticket, domain.TicketStatusResolved, "replaced keyboard", now))

	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	require.NotNil(t, ticket.ResolvedAt)
	require.NotNil(t, ticket.Resolution)
	assert.Equal(t, "replaced keyboard", *ticket.Resolution)
	assert.Equal(t, domain.SLAMet, ticket.SLAResolution)
}

func TestApplyTransitionReopenClearsResolutionState(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ticket := newOpenTicket(createdAt)
	require.NoError(t, applyTransition(ticket, domain.TicketStatusInProgress, "", createdAt.Add(time.Minute)))
	require.NoError(t, applyTransition(ticket, domain.TicketStatusResolved, "done", createdAt.Add(time.Hour)))

	respondedAt := *ticket.RespondedAt

	require.NoError(t, applyTransition(ticket, domain.TicketStatusInProgress, "", createdAt.Add(2*time.Hour)))

	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Nil(t, ticket.ResolvedAt)
	assert.Nil(t, ticket.ClosedAt)
	assert.Nil(t, ticket.Resolution)
	assert.Equal(t, domain.SLAPending, ticket.SLAResolution)
	// First response stays as originally recorded.
	require.NotNil(t, ticket.RespondedAt)
	assert.Equal(t, respondedAt, *ticket.RespondedAt)
	assert.Equal(t, domain.SLAMet, ticket.SLAResponse)
}

func TestApplyTransitionCloseIsTerminal(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ticket := newOpenTicket(createdAt)
	require.NoError(t, applyTransition(ticket, domain.TicketStatusInProgress, "", createdAt.Add(time.Minute)))
	require.NoError(t, applyTransition(ticket, domain.TicketStatusResolved, "done", createdAt.Add(time.Hour)))

	closedAt := createdAt.Add(3 * time.Hour)
	require.NoError(t, applyTransition(ticket, domain.TicketStatusClosed, "", closedAt))
	require.NotNil(t, ticket.ClosedAt)
	assert.Equal(t, closedAt, *ticket.ClosedAt)

	err := applyTransition(ticket, domain.TicketStatusInProgress, "", closedAt.Add(time.Minute))
	require.Error(t, err)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
}
