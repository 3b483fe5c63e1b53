package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/spec-kit/asset-service/internal/api/dto"
	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/repository"
	"github.com/spec-kit/asset-service/internal/service"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

// SubscriptionsHandler manages license subscription endpoints.
type SubscriptionsHandler struct {
	service *service.SubscriptionService
	audit   repository.AuditTrailRepository
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptionService *service.SubscriptionService, audit repository.AuditTrailRepository) *SubscriptionsHandler {
	return &SubscriptionsHandler{service: subscriptionService, audit: audit}
}

// CreateSubscription POST /subscriptions.
func (h *SubscriptionsHandler) CreateSubscription(c *fiber.Ctx) error {
	req, err := parseSubscriptionBody(c)
	if err != nil {
		return err
	}

	sub, err := h.service.CreateSubscription(c.Context(), actorFromContext(c), subscriptionInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSubscriptionResponse(sub)})
}

// UpdateSubscription PUT /subscriptions/:id.
func (h *SubscriptionsHandler) UpdateSubscription(c *fiber.Ctx) error {
	req, err := parseSubscriptionBody(c)
	if err != nil {
		return err
	}

	sub, err := h.service.UpdateSubscription(c.Context(), actorFromContext(c), c.Params("id"), subscriptionInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubscriptionResponse(sub)})
}

// GetSubscription GET /subscriptions/:id.
func (h *SubscriptionsHandler) GetSubscription(c *fiber.Ctx) error {
	sub, allocations, err := h.service.GetSubscription(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SubscriptionDetailResponse{
		SubscriptionResponse: dto.NewSubscriptionResponse(sub),
		Allocations: lo.Map(allocations, func(alloc domain.LicenseAllocation, _ int) dto.AllocationResponse {
			return dto.NewAllocationResponse(alloc)
		}),
	}})
}

// ListSubscriptions GET /subscriptions.
func (h *SubscriptionsHandler) ListSubscriptions(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	subs, err := h.service.ListSubscriptions(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := lo.Map(subs, func(sub domain.Subscription, _ int) dto.SubscriptionResponse {
		return dto.NewSubscriptionResponse(&sub)
	})
	return c.JSON(fiber.Map{"data": items})
}

// AllocateLicense POST /subscriptions/:id/allocations.
func (h *SubscriptionsHandler) AllocateLicense(c *fiber.Ctx) error {
	var req dto.AllocateLicenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	allocation, err := h.service.AllocateLicense(c.Context(), actorFromContext(c), c.Params("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAllocationResponse(*allocation)})
}

// ReleaseLicense DELETE /subscriptions/:id/allocations/:userId.
func (h *SubscriptionsHandler) ReleaseLicense(c *fiber.Ctx) error {
	if err := h.service.ReleaseLicense(c.Context(), actorFromContext(c), c.Params("id"), c.Params("userId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"released": true}})
}

// ListAuditTrail GET /subscriptions/:id/audit.
func (h *SubscriptionsHandler) ListAuditTrail(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	entries, err := h.audit.ListByEntity(c.Context(), domain.AuditEntitySubscription, c.Params("id"), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := lo.Map(entries, func(entry domain.AuditTrail, _ int) dto.AuditEntryResponse {
		return dto.NewAuditEntryResponse(entry)
	})
	return c.JSON(fiber.Map{"data": items})
}

func parseSubscriptionBody(c *fiber.Ctx) (dto.CreateSubscriptionRequest, error) {
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return req, err
	}
	return req, nil
}

func subscriptionInput(req dto.CreateSubscriptionRequest) service.SubscriptionCreateInput {
	return service.SubscriptionCreateInput{
		Name:          req.Name,
		Vendor:        req.Vendor,
		TotalLicenses: req.TotalLicenses,
		CostPerPeriod: req.CostPerPeriod,
		BillingCycle:  req.BillingCycle,
		ExpiryDate:    req.ExpiryDate,
	}
}
