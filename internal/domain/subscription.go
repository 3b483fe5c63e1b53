package domain

import "time"

// SubscriptionStatus is derived purely from ExpiryDate relative to now.
type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "ACTIVE"
	SubscriptionExpiringSoon SubscriptionStatus = "EXPIRING_SOON"
	SubscriptionExpired      SubscriptionStatus = "EXPIRED"
)

// BillingCycle enumerates subscription billing periods.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "MONTHLY"
	BillingYearly  BillingCycle = "YEARLY"
)

// Subscription models a licensed software/service contract.
// UsedLicenses never exceeds TotalLicenses; each reminder flag is
// settable at most once.
type Subscription struct {
	ID              string
	Name            string
	Vendor          string
	TotalLicenses   int
	UsedLicenses    int
	CostPerPeriod   int64
	BillingCycle    BillingCycle
	ExpiryDate      time.Time
	Status          SubscriptionStatus
	ReminderSentH30 bool
	ReminderSentH14 bool
	ReminderSentH7  bool
	ReminderSentH1  bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LicenseAllocation ties one license slot to one user.
type LicenseAllocation struct {
	ID             string
	SubscriptionID string
	UserID         string
	UserName       string
	AllocatedAt    time.Time
}
