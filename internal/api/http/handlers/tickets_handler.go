package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/spec-kit/asset-service/internal/api/dto"
	"github.com/spec-kit/asset-service/internal/auth"
	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/repository"
	"github.com/spec-kit/asset-service/internal/service"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

// TicketsHandler manages service ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	audit   repository.AuditTrailRepository
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, audit repository.AuditTrailRepository) *TicketsHandler {
	return &TicketsHandler{service: ticketService, audit: audit}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.Context(), actorFromContext(c), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssetID:     req.AssetID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /tickets. Non-staff callers only see their own tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tickets, err := h.service.ListTickets(c.Context(), actorFromContext(c), principal.IsStaff(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := lo.Map(tickets, func(ticket domain.ServiceTicket, _ int) dto.TicketResponse {
		return dto.NewTicketResponse(&ticket)
	})
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, comments, err := h.service.GetTicket(c.Context(), actorFromContext(c), principal.IsStaff(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		TicketResponse: dto.NewTicketResponse(ticket),
		Comments: lo.Map(comments, func(comment domain.TicketComment, _ int) dto.CommentResponse {
			return dto.NewCommentResponse(comment)
		}),
	}})
}

// TransitionTicket POST /tickets/:id/transition.
func (h *TicketsHandler) TransitionTicket(c *fiber.Ctx) error {
	var req dto.TransitionTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.Transition(c.Context(), actorFromContext(c), c.Params("id"), req.Status, req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// RateTicket POST /tickets/:id/rating.
func (h *TicketsHandler) RateTicket(c *fiber.Ctx) error {
	var req dto.RateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.RateTicket(c.Context(), actorFromContext(c), c.Params("id"), req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.Context(), actorFromContext(c), principal.IsStaff(), c.Params("id"), req.Body, req.Internal)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(*comment)})
}

// ListAuditTrail GET /tickets/:id/audit.
func (h *TicketsHandler) ListAuditTrail(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	entries, err := h.audit.ListByEntity(c.Context(), domain.AuditEntityTicket, c.Params("id"), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := lo.Map(entries, func(entry domain.AuditTrail, _ int) dto.AuditEntryResponse {
		return dto.NewAuditEntryResponse(entry)
	})
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	for _, part := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(part))
	}
	for _, part := range splitCSV(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(part))
	}
	filter.RequesterID = optionalQuery(c, "requester_id")
	filter.AssigneeID = optionalQuery(c, "assignee_id")
	filter.AssetID = optionalQuery(c, "asset_id")
	filter.SearchTerm = optionalQuery(c, "search")
	if escalated := c.Query("escalated"); escalated == "true" || escalated == "false" {
		val := escalated == "true"
		filter.Escalated = &val
	}
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}
