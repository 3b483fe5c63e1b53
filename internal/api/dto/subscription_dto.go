package dto

import (
	"time"

	"github.com/spec-kit/asset-service/internal/domain"
)

// CreateSubscriptionRequest payload, also used for full updates.
type CreateSubscriptionRequest struct {
	Name          string              `json:"name" validate:"required"`
	Vendor        string              `json:"vendor" validate:"required"`
	TotalLicenses int                 `json:"total_licenses" validate:"required,gt=0"`
	CostPerPeriod int64               `json:"cost_per_period" validate:"gte=0"`
	BillingCycle  domain.BillingCycle `json:"billing_cycle" validate:"required,oneof=MONTHLY YEARLY"`
	ExpiryDate    time.Time           `json:"expiry_date" validate:"required"`
}

// AllocateLicenseRequest payload.
type AllocateLicenseRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

// SubscriptionResponse serializes one subscription.
type SubscriptionResponse struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Vendor        string                    `json:"vendor"`
	TotalLicenses int                       `json:"total_licenses"`
	UsedLicenses  int                       `json:"used_licenses"`
	CostPerPeriod int64                     `json:"cost_per_period"`
	BillingCycle  domain.BillingCycle       `json:"billing_cycle"`
	ExpiryDate    time.Time                 `json:"expiry_date"`
	Status        domain.SubscriptionStatus `json:"status"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// SubscriptionDetailResponse adds per-user allocations.
type SubscriptionDetailResponse struct {
	SubscriptionResponse
	Allocations []AllocationResponse `json:"allocations"`
}

// AllocationResponse serializes one license slot.
type AllocationResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	AllocatedAt time.Time `json:"allocated_at"`
}

// NewSubscriptionResponse maps the domain model.
func NewSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:            sub.ID,
		Name:          sub.Name,
		Vendor:        sub.Vendor,
		TotalLicenses: sub.TotalLicenses,
		UsedLicenses:  sub.UsedLicenses,
		CostPerPeriod: sub.CostPerPeriod,
		BillingCycle:  sub.BillingCycle,
		ExpiryDate:    sub.ExpiryDate,
		Status:        sub.Status,
		CreatedAt:     sub.CreatedAt,
		UpdatedAt:     sub.UpdatedAt,
	}
}

// NewAllocationResponse maps one license slot.
func NewAllocationResponse(alloc domain.LicenseAllocation) AllocationResponse {
	return AllocationResponse{
		ID:          alloc.ID,
		UserID:      alloc.UserID,
		UserName:    alloc.UserName,
		AllocatedAt: alloc.AllocatedAt,
	}
}
