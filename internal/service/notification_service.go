package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/repository"
)

// NotificationService emits email notifications for domain events. All
// sends are fire-and-forget: the publishing mutation never waits on or
// fails because of them.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mailer     Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, mailer Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handleTicketEscalated)
	n.dispatcher.Subscribe(events.EventAssetAssigned, n.handleAssetAssigned)
	n.dispatcher.Subscribe(events.EventSubscriptionExpiring, n.handleSubscriptionExpiring)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("Ticket %s received", payload.TicketNumber)
	body := fmt.Sprintf("<p>Your ticket <b>%s</b> (%s) has been registered: %s</p>",
		payload.TicketNumber, payload.Priority, payload.Title)
	go n.sendToUser(payload.RequesterID, subject, body)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("Ticket %s is now %s", payload.TicketNumber, payload.NewStatus)
	body := fmt.Sprintf("<p>Ticket <b>%s</b> moved from %s to %s.</p>",
		payload.TicketNumber, payload.OldStatus, payload.NewStatus)
	if payload.Resolution != "" {
		body += fmt.Sprintf("<p>Resolution: %s</p>", payload.Resolution)
	}
	go n.sendToUser(payload.RequesterID, subject, body)
	return nil
}

func (n *NotificationService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("Ticket %s escalated", payload.TicketNumber)
	body := fmt.Sprintf("<p>Ticket <b>%s</b> (%s) missed its resolution target of %s.</p>",
		payload.TicketNumber, payload.Priority, payload.ResolutionTarget.Format("2006-01-02 15:04"))
	go n.sendToAdmins(subject, body)
	return nil
}

func (n *NotificationService) handleAssetAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AssetAssignedPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("Asset %s assigned to you", payload.AssetCode)
	body := fmt.Sprintf("<p>You are now responsible for <b>%s</b> (%s).</p>",
		payload.AssetName, payload.AssetCode)
	go n.sendToUser(payload.AssigneeID, subject, body)
	return nil
}

func (n *NotificationService) handleSubscriptionExpiring(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SubscriptionExpiringPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("Subscription %s expires in %d days", payload.SubscriptionName, payload.MilestoneDays)
	body := fmt.Sprintf("<p>Subscription <b>%s</b> expires on %s.</p>",
		payload.SubscriptionName, payload.ExpiryDate.Format("2006-01-02"))
	go n.sendToAdmins(subject, body)
	return nil
}

// sendToUser resolves a recipient and sends. Runs detached from the
// request; uses a background context for the lookup.
func (n *NotificationService) sendToUser(userID, subject, body string) {
	user, err := n.users.GetByID(context.Background(), userID)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed",
			zap.String("user_id", userID), zap.Error(err))
		return
	}
	n.mailer.Send(user.Email, subject, body)
}

func (n *NotificationService) sendToAdmins(subject, body string) {
	admins, err := n.users.ListByRole(context.Background(), domain.RoleAdmin)
	if err != nil {
		n.logger.Warn("admin list lookup failed", zap.Error(err))
		return
	}
	for _, admin := range admins {
		n.mailer.Send(admin.Email, subject, body)
	}
}
