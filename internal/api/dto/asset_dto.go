package dto

import (
	"time"

	"github.com/spec-kit/asset-service/internal/domain"
)

// CreateAssetRequest payload.
type CreateAssetRequest struct {
	SerialNumber  string               `json:"serial_number" validate:"required"`
	Name          string               `json:"name" validate:"required"`
	Category      domain.AssetCategory `json:"category" validate:"required"`
	Type          string               `json:"type"`
	PurchaseDate  *time.Time           `json:"purchase_date"`
	PurchasePrice int64                `json:"purchase_price" validate:"gte=0"`
	Location      string               `json:"location"`
	Notes         string               `json:"notes"`
}

// UpdateAssetRequest payload. Omitted fields stay unchanged.
type UpdateAssetRequest struct {
	SerialNumber *string `json:"serial_number"`
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
}

// AssignAssetRequest payload.
type AssignAssetRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

// ChangeAssetStatusRequest payload.
type ChangeAssetStatusRequest struct {
	Status domain.AssetStatus `json:"status" validate:"required"`
}

// AssetResponse serializes one asset.
type AssetResponse struct {
	ID             string               `json:"id"`
	AssetCode      string               `json:"asset_code"`
	SerialNumber   string               `json:"serial_number"`
	Name           string               `json:"name"`
	Category       domain.AssetCategory `json:"category"`
	Type           string               `json:"type"`
	Status         domain.AssetStatus   `json:"status"`
	AssignedTo     *string              `json:"assigned_to"`
	AssignedToName *string              `json:"assigned_to_name"`
	AssignedAt     *time.Time           `json:"assigned_at"`
	PurchaseDate   *time.Time           `json:"purchase_date"`
	PurchasePrice  int64                `json:"purchase_price"`
	Location       string               `json:"location"`
	Notes          string               `json:"notes"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// AssetDetailResponse adds the depreciation schedule when computable.
type AssetDetailResponse struct {
	AssetResponse
	Depreciation *domain.DepreciationSchedule `json:"depreciation,omitempty"`
}

// NewAssetResponse maps the domain model.
func NewAssetResponse(asset *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:             asset.ID,
		AssetCode:      asset.AssetCode,
		SerialNumber:   asset.SerialNumber,
		Name:           asset.Name,
		Category:       asset.Category,
		Type:           asset.Type,
		Status:         asset.Status,
		AssignedTo:     asset.AssignedTo,
		AssignedToName: asset.AssignedToName,
		AssignedAt:     asset.AssignedAt,
		PurchaseDate:   asset.PurchaseDate,
		PurchasePrice:  asset.PurchasePrice,
		Location:       asset.Location,
		Notes:          asset.Notes,
		CreatedAt:      asset.CreatedAt,
		UpdatedAt:      asset.UpdatedAt,
	}
}
