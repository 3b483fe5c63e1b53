package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/asset-service/internal/config"
	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/integrations"
	"github.com/spec-kit/asset-service/internal/observability"
	"github.com/spec-kit/asset-service/internal/repository"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

// SweepResult summarizes one externally triggered maintenance pass.
type SweepResult struct {
	Count   int      `json:"count"`
	Details []string `json:"details"`
}

// SweepService implements the one-shot jobs invoked by external cron.
// Each sweep is a single pass, idempotent across consecutive runs.
type SweepService struct {
	tickets       repository.TicketRepository
	subscriptions repository.SubscriptionRepository
	ticketService *TicketService
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	workspace     *integrations.WorkspaceClient
	logger        *zap.Logger
	cfg           config.SweepConfig
}

// SweepDependencies bundles collaborators for the sweep service.
type SweepDependencies struct {
	TicketRepo       repository.TicketRepository
	SubscriptionRepo repository.SubscriptionRepository
	TicketService    *TicketService
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Workspace        *integrations.WorkspaceClient
	Logger           *zap.Logger
	Config           config.SweepConfig
}

// NewSweepService constructs the service.
func NewSweepService(deps SweepDependencies) *SweepService {
	return &SweepService{
		tickets:       deps.TicketRepo,
		subscriptions: deps.SubscriptionRepo,
		ticketService: deps.TicketService,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		workspace:     deps.Workspace,
		logger:        deps.Logger,
		cfg:           deps.Config,
	}
}

// recordSweep publishes the run's counters to metrics and, when the
// sheets integration is configured, appends a row to the sweep log.
func (s *SweepService) recordSweep(ctx context.Context, name string, count int) {
	s.metrics.RecordSweep(name, count)
	if s.workspace == nil {
		return
	}
	now := time.Now()
	s.workspace.AppendToSheet(ctx, integrations.SheetAppend{
		ExternalKey: fmt.Sprintf("%s-%d", name, now.Unix()),
		Sheet:       "sweep_log",
		Row:         []string{now.Format(time.RFC3339), name, fmt.Sprintf("%d", count)},
	})
}

// RefreshSubscriptionStatuses recomputes each derived status from the
// expiry date, updating only rows whose stored status drifted.
func (s *SweepService) RefreshSubscriptionStatuses(ctx context.Context) (*SweepResult, error) {
	subs, err := s.subscriptions.List(ctx, 0, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	result := &SweepResult{Details: []string{}}
	for i := range subs {
		derived := DeriveSubscriptionStatus(subs[i].ExpiryDate, now, s.cfg.ExpiringSoonDays)
		if derived == subs[i].Status {
			continue
		}
		if err := s.subscriptions.UpdateStatus(ctx, subs[i].ID, derived); err != nil {
			s.logger.Error("status refresh failed",
				zap.String("subscription_id", subs[i].ID), zap.Error(err))
			continue
		}
		result.Count++
		result.Details = append(result.Details,
			fmt.Sprintf("%s: %s -> %s", subs[i].Name, subs[i].Status, derived))
	}
	s.recordSweep(ctx, "subscription_status_refresh", result.Count)
	return result, nil
}

// SendExpiryReminders sends at most the single most urgent un-sent
// milestone per subscription per run, then flips that milestone's flag.
// A milestone flag flips at most once, so no reminder repeats.
func (s *SweepService) SendExpiryReminders(ctx context.Context) (*SweepResult, error) {
	subs, err := s.subscriptions.List(ctx, 0, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	result := &SweepResult{Details: []string{}}
	for i := range subs {
		milestone := NextReminderMilestone(&subs[i], now)
		if milestone == 0 {
			continue
		}
		if err := s.subscriptions.MarkReminderSent(ctx, subs[i].ID, milestone); err != nil {
			s.logger.Error("reminder flag update failed",
				zap.String("subscription_id", subs[i].ID),
				zap.Int("milestone_days", milestone),
				zap.Error(err))
			continue
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventSubscriptionExpiring,
			EntityID: subs[i].ID,
			Actor:    events.SystemActor,
			Payload: events.SubscriptionExpiringPayload{
				SubscriptionName: subs[i].Name,
				ExpiryDate:       subs[i].ExpiryDate,
				MilestoneDays:    milestone,
			},
		})
		result.Count++
		result.Details = append(result.Details,
			fmt.Sprintf("%s: H-%d reminder", subs[i].Name, milestone))
	}
	s.recordSweep(ctx, "subscription_reminders", result.Count)
	return result, nil
}

// AutoCloseResolved closes tickets that stayed resolved past the
// configured age. Closed tickets no longer match the eligibility query,
// so a second run is a no-op for the same ticket.
func (s *SweepService) AutoCloseResolved(ctx context.Context) (*SweepResult, error) {
	days := s.cfg.AutoCloseAfterDays
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	tickets, err := s.tickets.ListResolvedBefore(ctx, cutoff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := &SweepResult{Details: []string{}}
	for i := range tickets {
		if _, err := s.ticketService.Transition(ctx, events.SystemActor, tickets[i].ID, domain.TicketStatusClosed, ""); err != nil {
			s.logger.Error("auto-close failed",
				zap.String("ticket_id", tickets[i].ID), zap.Error(err))
			continue
		}
		result.Count++
		result.Details = append(result.Details,
			fmt.Sprintf("%s auto-closed", tickets[i].TicketNumber))
	}
	s.recordSweep(ctx, "ticket_auto_close", result.Count)
	return result, nil
}

// EscalateOverdue flags open tickets past their resolution target. The
// escalated flag is one-way, so re-runs skip already flagged tickets.
func (s *SweepService) EscalateOverdue(ctx context.Context) (*SweepResult, error) {
	tickets, err := s.tickets.ListOverdueUnescalated(ctx, time.Now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := &SweepResult{Details: []string{}}
	for i := range tickets {
		if err := s.ticketService.Escalate(ctx, events.SystemActor, &tickets[i]); err != nil {
			s.logger.Error("escalation failed",
				zap.String("ticket_id", tickets[i].ID), zap.Error(err))
			continue
		}
		result.Count++
		result.Details = append(result.Details,
			fmt.Sprintf("%s escalated (%s)", tickets[i].TicketNumber, tickets[i].Priority))
	}
	s.recordSweep(ctx, "ticket_escalation", result.Count)
	return result, nil
}

func (s *SweepService) publishEvent(ctx context.Context, event events.Event) {
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
