package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/asset-service/internal/domain"
)

func TestComputeSLATargets(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		priority   domain.TicketPriority
		response   time.Duration
		resolution time.Duration
	}{
		{domain.TicketPriorityCritical, 30 * time.Minute, 4 * time.Hour},
		{domain.TicketPriorityHigh, time.Hour, 8 * time.Hour},
		{domain.TicketPriorityMedium, 4 * time.Hour, 24 * time.Hour},
		{domain.TicketPriorityLow, 8 * time.Hour, 72 * time.Hour},
	}

	for _, tc := range cases {
		t.Run(string(tc.priority), func(t *testing.T) {
			targets := ComputeSLATargets(tc.priority, createdAt)
			assert.Equal(t, createdAt.Add(tc.response), targets.ResponseTarget)
			assert.Equal(t, createdAt.Add(tc.resolution), targets.ResolutionTarget)
		})
	}
}

func TestComputeSLATargetsUnknownPriorityFallsBackToMedium(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	targets := ComputeSLATargets(domain.TicketPriority("URGENT"), createdAt)
	medium := ComputeSLATargets(domain.TicketPriorityMedium, createdAt)

	assert.Equal(t, medium, targets)
}

func TestSLAOutcome(t *testing.T) {
	target := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.SLAMet, slaOutcome(target.Add(-time.Minute), target))
	assert.Equal(t, domain.SLAMet, slaOutcome(target, target))
	assert.Equal(t, domain.SLABreached, slaOutcome(target.Add(time.Minute), target))
}
