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

// AssetsHandler manages inventory endpoints.
type AssetsHandler struct {
	service *service.AssetService
	audit   repository.AuditTrailRepository
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService, audit repository.AuditTrailRepository) *AssetsHandler {
	return &AssetsHandler{service: assetService, audit: audit}
}

// CreateAsset POST /assets.
func (h *AssetsHandler) CreateAsset(c *fiber.Ctx) error {
	var req dto.CreateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	asset, err := h.service.CreateAsset(c.Context(), actorFromContext(c), service.AssetCreateInput{
		SerialNumber:  req.SerialNumber,
		Name:          req.Name,
		Category:      req.Category,
		Type:          req.Type,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Location:      req.Location,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// ListAssets GET /assets.
func (h *AssetsHandler) ListAssets(c *fiber.Ctx) error {
	assets, err := h.service.ListAssets(c.Context(), parseAssetQuery(c))
	if err != nil {
		return err
	}
	items := lo.Map(assets, func(asset domain.Asset, _ int) dto.AssetResponse {
		return dto.NewAssetResponse(&asset)
	})
	return c.JSON(fiber.Map{"data": items})
}

// GetAsset GET /assets/:id.
func (h *AssetsHandler) GetAsset(c *fiber.Ctx) error {
	asset, schedule, err := h.service.GetAsset(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AssetDetailResponse{
		AssetResponse: dto.NewAssetResponse(asset),
		Depreciation:  schedule,
	}})
}

// UpdateAsset PATCH /assets/:id.
func (h *AssetsHandler) UpdateAsset(c *fiber.Ctx) error {
	var req dto.UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	asset, err := h.service.UpdateAsset(c.Context(), actorFromContext(c), c.Params("id"), service.AssetUpdateInput{
		SerialNumber: req.SerialNumber,
		Name:         req.Name,
		Type:         req.Type,
		Location:     req.Location,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// AssignAsset POST /assets/:id/assign.
func (h *AssetsHandler) AssignAsset(c *fiber.Ctx) error {
	var req dto.AssignAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	asset, err := h.service.Assign(c.Context(), actorFromContext(c), c.Params("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// ReturnAsset POST /assets/:id/return.
func (h *AssetsHandler) ReturnAsset(c *fiber.Ctx) error {
	asset, err := h.service.Return(c.Context(), actorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// ChangeStatus POST /assets/:id/status.
func (h *AssetsHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeAssetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	asset, err := h.service.ChangeStatus(c.Context(), actorFromContext(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// ListAuditTrail GET /assets/:id/audit.
func (h *AssetsHandler) ListAuditTrail(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	entries, err := h.audit.ListByEntity(c.Context(), domain.AuditEntityAsset, c.Params("id"), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := lo.Map(entries, func(entry domain.AuditTrail, _ int) dto.AuditEntryResponse {
		return dto.NewAuditEntryResponse(entry)
	})
	return c.JSON(fiber.Map{"data": items})
}

func parseAssetQuery(c *fiber.Ctx) repository.AssetFilter {
	filter := repository.AssetFilter{}
	for _, part := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.AssetStatus(part))
	}
	for _, part := range splitCSV(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.AssetCategory(part))
	}
	filter.AssignedTo = optionalQuery(c, "assigned_to")
	filter.SearchTerm = optionalQuery(c, "search")
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}
