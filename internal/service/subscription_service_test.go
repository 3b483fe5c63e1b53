package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/asset-service/internal/domain"
)

func TestDeriveSubscriptionStatus(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		expiry time.Time
		want   domain.SubscriptionStatus
	}{
		{"already expired", now.AddDate(0, 0, -1), domain.SubscriptionExpired},
		{"expires this instant", now, domain.SubscriptionExpired},
		{"one day left", now.AddDate(0, 0, 1), domain.SubscriptionExpiringSoon},
		{"thirty days left", now.AddDate(0, 0, 30), domain.SubscriptionExpiringSoon},
		{"thirty-one days left", now.AddDate(0, 0, 31), domain.SubscriptionActive},
		{"a year out", now.AddDate(1, 0, 0), domain.SubscriptionActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveSubscriptionStatus(tc.expiry, now, 0))
		})
	}
}

func TestDeriveSubscriptionStatusConfigurableWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 0, 45)

	assert.Equal(t, domain.SubscriptionActive, DeriveSubscriptionStatus(expiry, now, 30))
	assert.Equal(t, domain.SubscriptionExpiringSoon, DeriveSubscriptionStatus(expiry, now, 60),
		"a wider window pulls the same expiry into EXPIRING_SOON")
	assert.Equal(t, domain.SubscriptionActive, DeriveSubscriptionStatus(expiry, now, 0),
		"zero falls back to the 30-day default")
}

func TestNextReminderMilestonePicksMostUrgentUnsent(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	sub := &domain.Subscription{ExpiryDate: now.AddDate(0, 0, 10)}
	assert.Equal(t, 14, NextReminderMilestone(sub, now))

	sub.ReminderSentH14 = true
	assert.Equal(t, 30, NextReminderMilestone(sub, now),
		"the 30-day milestone was never sent and still applies")

	sub.ReminderSentH30 = true
	assert.Equal(t, 0, NextReminderMilestone(sub, now))
}

func TestNextReminderMilestoneBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	// Past expiry: nothing to remind about.
	expired := &domain.Subscription{ExpiryDate: now.AddDate(0, 0, -2)}
	assert.Equal(t, 0, NextReminderMilestone(expired, now))

	// Same for an expiry within the last day; rounding the remaining
	// hours up must not resurrect the 1-day milestone.
	justExpired := &domain.Subscription{ExpiryDate: now.Add(-time.Hour)}
	assert.Equal(t, 0, NextReminderMilestone(justExpired, now))

	atExpiry := &domain.Subscription{ExpiryDate: now}
	assert.Equal(t, 0, NextReminderMilestone(atExpiry, now))

	// A fraction of a day rounds up, so ~23h left hits the 1-day milestone.
	closeCall := &domain.Subscription{ExpiryDate: now.Add(23 * time.Hour)}
	assert.Equal(t, 1, NextReminderMilestone(closeCall, now))

	// Beyond the widest milestone nothing fires yet.
	early := &domain.Subscription{ExpiryDate: now.AddDate(0, 0, 45)}
	assert.Equal(t, 0, NextReminderMilestone(early, now))
}

func TestNextReminderMilestoneSendsEachFlagOnce(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sub := &domain.Subscription{ExpiryDate: now.AddDate(0, 0, 6)}

	first := NextReminderMilestone(sub, now)
	assert.Equal(t, 7, first)
	sub.ReminderSentH7 = true

	// Same day, second sweep run: 7 is sent, falls through to 14 then 30.
	assert.Equal(t, 14, NextReminderMilestone(sub, now))
	sub.ReminderSentH14 = true
	sub.ReminderSentH30 = true

	assert.Equal(t, 0, NextReminderMilestone(sub, now))

	// Closer to expiry a new, more urgent milestone applies.
	later := now.AddDate(0, 0, 5)
	assert.Equal(t, 1, NextReminderMilestone(sub, later))
}
