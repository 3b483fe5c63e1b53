package service

import (
	"time"

	"github.com/spec-kit/asset-service/internal/domain"
)

// SLATargets holds the two deadlines derived from priority and creation time.
type SLATargets struct {
	ResponseTarget   time.Time
	ResolutionTarget time.Time
}

type slaBudget struct {
	response   time.Duration
	resolution time.Duration
}

var slaMatrix = map[domain.TicketPriority]slaBudget{
	domain.TicketPriorityCritical: {response: 30 * time.Minute, resolution: 240 * time.Minute},
	domain.TicketPriorityHigh:     {response: 60 * time.Minute, resolution: 480 * time.Minute},
	domain.TicketPriorityMedium:   {response: 240 * time.Minute, resolution: 1440 * time.Minute},
	domain.TicketPriorityLow:      {response: 480 * time.Minute, resolution: 4320 * time.Minute},
}

// ComputeSLATargets maps a priority and creation time to the first-response
// and resolution deadlines. Unknown priorities fall back to MEDIUM.
func ComputeSLATargets(priority domain.TicketPriority, createdAt time.Time) SLATargets {
	budget, ok := slaMatrix[priority]
	if !ok {
		budget = slaMatrix[domain.TicketPriorityMedium]
	}
	return SLATargets{
		ResponseTarget:   createdAt.Add(budget.response),
		ResolutionTarget: createdAt.Add(budget.resolution),
	}
}

func slaOutcome(now, target time.Time) domain.SLAOutcome {
	if now.After(target) {
		return domain.SLABreached
	}
	return domain.SLAMet
}
