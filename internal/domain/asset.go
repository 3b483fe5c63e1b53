package domain

import "time"

// AssetStatus enumerates lifecycle states for physical assets.
type AssetStatus string

const (
	AssetStatusProcurement AssetStatus = "PROCUREMENT"
	AssetStatusInStock     AssetStatus = "IN_STOCK"
	AssetStatusDeployed    AssetStatus = "DEPLOYED"
	AssetStatusMaintenance AssetStatus = "MAINTENANCE"
	AssetStatusReserved    AssetStatus = "RESERVED"
	AssetStatusRetired     AssetStatus = "RETIRED"
	AssetStatusLost        AssetStatus = "LOST"
)

// AssetCategory classifies assets for code series and depreciation life.
type AssetCategory string

const (
	CategoryLaptop     AssetCategory = "LAPTOP"
	CategoryComputer   AssetCategory = "COMPUTER"
	CategoryDesktop    AssetCategory = "DESKTOP"
	CategoryMonitor    AssetCategory = "MONITOR"
	CategoryPrinter    AssetCategory = "PRINTER"
	CategoryNetworking AssetCategory = "NETWORKING"
	CategoryServer     AssetCategory = "SERVER"
	CategoryPhone      AssetCategory = "PHONE"
	CategoryTablet     AssetCategory = "TABLET"
	CategoryFurniture  AssetCategory = "FURNITURE"
	CategoryVehicle    AssetCategory = "VEHICLE"
)

// Asset is the aggregate for a tracked inventory item.
// AssignedTo is non-nil only while Status is DEPLOYED.
type Asset struct {
	ID             string
	AssetCode      string
	SerialNumber   string
	Name           string
	Category       AssetCategory
	Type           string
	Status         AssetStatus
	AssignedTo     *string
	AssignedToName *string
	AssignedAt     *time.Time
	PurchaseDate   *time.Time
	PurchasePrice  int64
	Location       string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
