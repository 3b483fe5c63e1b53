package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-service/internal/service"
)

// JobsHandler exposes maintenance sweeps to external cron. Routes are
// gated by the cron token middleware, not by user auth.
type JobsHandler struct {
	sweeps *service.SweepService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(sweeps *service.SweepService) *JobsHandler {
	return &JobsHandler{sweeps: sweeps}
}

// RefreshSubscriptionStatuses POST /jobs/subscriptions/refresh-status.
func (h *JobsHandler) RefreshSubscriptionStatuses(c *fiber.Ctx) error {
	return h.run(c, h.sweeps.RefreshSubscriptionStatuses)
}

// SendExpiryReminders POST /jobs/subscriptions/send-reminders.
func (h *JobsHandler) SendExpiryReminders(c *fiber.Ctx) error {
	return h.run(c, h.sweeps.SendExpiryReminders)
}

// AutoCloseResolved POST /jobs/tickets/auto-close.
func (h *JobsHandler) AutoCloseResolved(c *fiber.Ctx) error {
	return h.run(c, h.sweeps.AutoCloseResolved)
}

// EscalateOverdue POST /jobs/tickets/escalate.
func (h *JobsHandler) EscalateOverdue(c *fiber.Ctx) error {
	return h.run(c, h.sweeps.EscalateOverdue)
}

func (h *JobsHandler) run(c *fiber.Ctx, sweep func(context.Context) (*service.SweepResult, error)) error {
	result, err := sweep(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
