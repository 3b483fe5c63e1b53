package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/repository"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

// defaultExpiringSoonDays is the window in which a subscription counts
// as EXPIRING_SOON rather than ACTIVE, used when no override is
// configured (SWEEP_EXPIRING_SOON_DAYS).
const defaultExpiringSoonDays = 30

// reminderMilestones are the days-before-expiry notification points,
// most urgent first.
var reminderMilestones = []int{1, 7, 14, 30}

// SubscriptionService manages license contracts and their allocations.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
	audit         *AuditRecorder
	dispatcher    events.Dispatcher
	soonDays      int
}

// SubscriptionDependencies bundles repositories.
type SubscriptionDependencies struct {
	SubscriptionRepo repository.SubscriptionRepository
	UserRepo         repository.UserRepository
	Audit            *AuditRecorder
	Dispatcher       events.Dispatcher
	ExpiringSoonDays int
}

// SubscriptionCreateInput describes creation payload.
type SubscriptionCreateInput struct {
	Name          string
	Vendor        string
	TotalLicenses int
	CostPerPeriod int64
	BillingCycle  domain.BillingCycle
	ExpiryDate    time.Time
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(deps SubscriptionDependencies) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: deps.SubscriptionRepo,
		users:         deps.UserRepo,
		audit:         deps.Audit,
		dispatcher:    deps.Dispatcher,
		soonDays:      deps.ExpiringSoonDays,
	}
}

// DeriveSubscriptionStatus computes the status purely from the expiry
// date relative to now. soonDays is the EXPIRING_SOON window; values
// <= 0 fall back to the default.
func DeriveSubscriptionStatus(expiry, now time.Time, soonDays int) domain.SubscriptionStatus {
	if soonDays <= 0 {
		soonDays = defaultExpiringSoonDays
	}
	if !expiry.After(now) {
		return domain.SubscriptionExpired
	}
	if !expiry.After(now.AddDate(0, 0, soonDays)) {
		return domain.SubscriptionExpiringSoon
	}
	return domain.SubscriptionActive
}

// NextReminderMilestone picks the single most urgent un-sent milestone
// applicable to the subscription, or 0 when none applies. At most one
// milestone is returned per call and a sent milestone is never repeated.
func NextReminderMilestone(sub *domain.Subscription, now time.Time) int {
	// Reminders are strictly pre-expiry; an expired subscription gets none.
	if !sub.ExpiryDate.After(now) {
		return 0
	}
	daysLeft := daysUntil(sub.ExpiryDate, now)
	for _, milestone := range reminderMilestones {
		if daysLeft > milestone {
			continue
		}
		if reminderSent(sub, milestone) {
			continue
		}
		return milestone
	}
	return 0
}

func daysUntil(expiry, now time.Time) int {
	hours := expiry.Sub(now).Hours()
	return int(math.Ceil(hours / 24))
}

func reminderSent(sub *domain.Subscription, milestone int) bool {
	switch milestone {
	case 30:
		return sub.ReminderSentH30
	case 14:
		return sub.ReminderSentH14
	case 7:
		return sub.ReminderSentH7
	case 1:
		return sub.ReminderSentH1
	}
	return true
}

// CreateSubscription registers a new contract.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, actor events.Actor, input SubscriptionCreateInput) (*domain.Subscription, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.TotalLicenses <= 0 {
		return nil, apperrors.NewValidationError("total_licenses must be positive", nil)
	}
	if input.BillingCycle != domain.BillingMonthly && input.BillingCycle != domain.BillingYearly {
		return nil, apperrors.NewValidationError("invalid billing_cycle", nil)
	}

	sub := &domain.Subscription{
		Name:          strings.TrimSpace(input.Name),
		Vendor:        strings.TrimSpace(input.Vendor),
		TotalLicenses: input.TotalLicenses,
		UsedLicenses:  0,
		CostPerPeriod: input.CostPerPeriod,
		BillingCycle:  input.BillingCycle,
		ExpiryDate:    input.ExpiryDate,
		Status:        DeriveSubscriptionStatus(input.ExpiryDate, time.Now(), s.soonDays),
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntitySubscription, sub.ID, "subscription_created", actor,
		fmt.Sprintf("subscription %s created", sub.Name),
		nil,
		map[string]any{"total_licenses": sub.TotalLicenses, "expiry_date": sub.ExpiryDate},
	)
	return sub, nil
}

// UpdateSubscription edits contract terms. Used licenses are only moved
// through allocation and release.
func (s *SubscriptionService) UpdateSubscription(ctx context.Context, actor events.Actor, id string, input SubscriptionCreateInput) (*domain.Subscription, error) {
	sub, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.TotalLicenses < sub.UsedLicenses {
		return nil, apperrors.NewValidationError(
			"total_licenses cannot drop below used_licenses",
			map[string]any{"used_licenses": sub.UsedLicenses},
		)
	}

	previous := map[string]any{
		"total_licenses": sub.TotalLicenses,
		"expiry_date":    sub.ExpiryDate,
	}
	sub.Name = strings.TrimSpace(input.Name)
	sub.Vendor = strings.TrimSpace(input.Vendor)
	sub.TotalLicenses = input.TotalLicenses
	sub.CostPerPeriod = input.CostPerPeriod
	sub.BillingCycle = input.BillingCycle
	sub.ExpiryDate = input.ExpiryDate
	sub.Status = DeriveSubscriptionStatus(input.ExpiryDate, time.Now(), s.soonDays)

	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, domain.AuditEntitySubscription, sub.ID, "subscription_updated", actor,
		"terms updated", previous,
		map[string]any{"total_licenses": sub.TotalLicenses, "expiry_date": sub.ExpiryDate},
	)
	return sub, nil
}

// GetSubscription fetches one contract with its allocations.
func (s *SubscriptionService) GetSubscription(ctx context.Context, id string) (*domain.Subscription, []domain.LicenseAllocation, error) {
	sub, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	allocations, err := s.subscriptions.ListAllocations(ctx, sub.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return sub, allocations, nil
}

// ListSubscriptions returns contracts ordered by expiry.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, limit, offset int) ([]domain.Subscription, error) {
	subs, err := s.subscriptions.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return subs, nil
}

// AllocateLicense assigns one license slot to a user. Capacity and
// duplicate checks run inside the repository transaction.
func (s *SubscriptionService) AllocateLicense(ctx context.Context, actor events.Actor, subscriptionID, userID string) (*domain.LicenseAllocation, error) {
	sub, err := s.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if DeriveSubscriptionStatus(sub.ExpiryDate, time.Now(), s.soonDays) == domain.SubscriptionExpired {
		return nil, apperrors.NewValidationError("subscription expired", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	alloc := &domain.LicenseAllocation{
		SubscriptionID: sub.ID,
		UserID:         user.ID,
		UserName:       user.Name,
	}
	if err := s.subscriptions.AllocateLicense(ctx, alloc); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoLicensesAvailable):
			return nil, apperrors.NewConflict("no licenses available", map[string]any{"total_licenses": sub.TotalLicenses})
		case errors.Is(err, repository.ErrLicenseAlreadyAllocated):
			return nil, apperrors.NewConflict("user already holds a license", map[string]any{"user_id": user.ID})
		default:
			return nil, apperrors.MapError(err)
		}
	}

	s.audit.Record(ctx, domain.AuditEntitySubscription, sub.ID, "license_allocated", actor,
		fmt.Sprintf("license allocated to %s", user.Name),
		nil,
		map[string]any{"user_id": user.ID},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventLicenseAllocated,
		EntityID: sub.ID,
		Actor:    actor,
		Payload: events.LicenseAllocatedPayload{
			SubscriptionName: sub.Name,
			UserID:           user.ID,
		},
	})
	return alloc, nil
}

// ReleaseLicense frees the slot held by a user.
func (s *SubscriptionService) ReleaseLicense(ctx context.Context, actor events.Actor, subscriptionID, userID string) error {
	if err := s.subscriptions.ReleaseLicense(ctx, subscriptionID, userID); err != nil {
		return apperrors.MapError(err)
	}
	s.audit.Record(ctx, domain.AuditEntitySubscription, subscriptionID, "license_released", actor,
		fmt.Sprintf("license released from user %s", userID),
		map[string]any{"user_id": userID},
		nil,
	)
	return nil
}

func (s *SubscriptionService) publishEvent(ctx context.Context, event events.Event) {
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
