package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/integrations"
	"github.com/spec-kit/asset-service/internal/repository"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

// AssetService coordinates the inventory lifecycle.
type AssetService struct {
	assets     repository.AssetRepository
	counters   repository.CounterRepository
	users      repository.UserRepository
	audit      *AuditRecorder
	dispatcher events.Dispatcher
	workspace  *integrations.WorkspaceClient
}

// AssetDependencies bundles repositories for the asset service.
type AssetDependencies struct {
	AssetRepo   repository.AssetRepository
	CounterRepo repository.CounterRepository
	UserRepo    repository.UserRepository
	Audit       *AuditRecorder
	Dispatcher  events.Dispatcher
	Workspace   *integrations.WorkspaceClient
}

// AssetCreateInput describes asset registration payload.
type AssetCreateInput struct {
	SerialNumber  string
	Name          string
	Category      domain.AssetCategory
	Type          string
	PurchaseDate  *time.Time
	PurchasePrice int64
	Location      string
	Notes         string
}

// AssetUpdateInput describes editable asset fields.
type AssetUpdateInput struct {
	SerialNumber *string
	Name         *string
	Type         *string
	Location     *string
	Notes        *string
}

// NewAssetService constructs the service.
func NewAssetService(deps AssetDependencies) *AssetService {
	return &AssetService{
		assets:     deps.AssetRepo,
		counters:   deps.CounterRepo,
		users:      deps.UserRepo,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		workspace:  deps.Workspace,
	}
}

// assetTransitions mirrors the ticket machine's shape. RETIRED is
// terminal; DEPLOYED is entered only through Assign.
var assetTransitions = map[domain.AssetStatus][]domain.AssetStatus{
	domain.AssetStatusProcurement: {domain.AssetStatusInStock},
	domain.AssetStatusInStock:     {domain.AssetStatusDeployed, domain.AssetStatusMaintenance, domain.AssetStatusReserved, domain.AssetStatusRetired, domain.AssetStatusLost},
	domain.AssetStatusDeployed:    {domain.AssetStatusInStock, domain.AssetStatusMaintenance, domain.AssetStatusLost},
	domain.AssetStatusMaintenance: {domain.AssetStatusInStock, domain.AssetStatusRetired},
	domain.AssetStatusReserved:    {domain.AssetStatusDeployed, domain.AssetStatusInStock},
	domain.AssetStatusLost:        {domain.AssetStatusInStock, domain.AssetStatusRetired},
	domain.AssetStatusRetired:     {},
}

// IsValidAssetTransition reports whether current -> next is allowed.
func IsValidAssetTransition(current, next domain.AssetStatus) bool {
	for _, candidate := range assetTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

var categoryPrefixes = map[domain.AssetCategory]string{
	domain.CategoryLaptop:     "LAP",
	domain.CategoryComputer:   "COM",
	domain.CategoryDesktop:    "DSK",
	domain.CategoryMonitor:    "MON",
	domain.CategoryPrinter:    "PRN",
	domain.CategoryNetworking: "NET",
	domain.CategoryServer:     "SRV",
	domain.CategoryPhone:      "PHN",
	domain.CategoryTablet:     "TAB",
	domain.CategoryFurniture:  "FUR",
	domain.CategoryVehicle:    "VHC",
}

func categoryPrefix(category domain.AssetCategory) string {
	if prefix, ok := categoryPrefixes[category]; ok {
		return prefix
	}
	name := strings.ToUpper(string(category))
	if len(name) > 3 {
		name = name[:3]
	}
	return name
}

// CreateAsset registers an asset in PROCUREMENT, allocating a code from
// the per-category-per-year counter series.
func (s *AssetService) CreateAsset(ctx context.Context, actor events.Actor, input AssetCreateInput) (*domain.Asset, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.Category == "" {
		return nil, apperrors.NewValidationError("category required", nil)
	}

	year := time.Now().Year()
	code, err := s.counters.AllocateNext(ctx,
		fmt.Sprintf("asset_%s_%d", strings.ToLower(string(input.Category)), year),
		fmt.Sprintf("%s-%d", categoryPrefix(input.Category), year),
		3,
	)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	asset := &domain.Asset{
		AssetCode:     code,
		SerialNumber:  strings.TrimSpace(input.SerialNumber),
		Name:          strings.TrimSpace(input.Name),
		Category:      input.Category,
		Type:          strings.TrimSpace(input.Type),
		Status:        domain.AssetStatusProcurement,
		PurchaseDate:  input.PurchaseDate,
		PurchasePrice: input.PurchasePrice,
		Location:      strings.TrimSpace(input.Location),
		Notes:         strings.TrimSpace(input.Notes),
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityAsset, asset.ID, "asset_created", actor,
		fmt.Sprintf("asset %s registered", asset.AssetCode),
		nil,
		map[string]any{"status": asset.Status, "category": asset.Category},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventAssetCreated,
		EntityID: asset.ID,
		Actor:    actor,
		Payload: events.AssetStatusChangedPayload{
			AssetCode: asset.AssetCode,
			NewStatus: asset.Status,
		},
	})
	return asset, nil
}

// UpdateAsset edits descriptive fields. Lifecycle fields go through
// ChangeStatus/Assign/Return.
func (s *AssetService) UpdateAsset(ctx context.Context, actor events.Actor, assetID string, input AssetUpdateInput) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.SerialNumber != nil {
		asset.SerialNumber = strings.TrimSpace(*input.SerialNumber)
	}
	if input.Name != nil {
		asset.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		asset.Type = strings.TrimSpace(*input.Type)
	}
	if input.Location != nil {
		asset.Location = strings.TrimSpace(*input.Location)
	}
	if input.Notes != nil {
		asset.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, domain.AuditEntityAsset, asset.ID, "asset_updated", actor, "details updated", nil, nil)
	return asset, nil
}

// Assign deploys an asset to a user. Only stocked or reserved assets may
// be assigned; the assignment fields and DEPLOYED status change together
// so AssignedTo stays non-nil exactly while deployed.
func (s *AssetService) Assign(ctx context.Context, actor events.Actor, assetID, userID string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !IsValidAssetTransition(asset.Status, domain.AssetStatusDeployed) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("asset in status %s cannot be assigned", asset.Status),
			map[string]any{"status": asset.Status},
		)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	oldStatus := asset.Status
	asset.Status = domain.AssetStatusDeployed
	asset.AssignedTo = &user.ID
	asset.AssignedToName = &user.Name
	asset.AssignedAt = &now

	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityAsset, asset.ID, "asset_assigned", actor,
		fmt.Sprintf("assigned to %s", user.Name),
		map[string]any{"status": oldStatus},
		map[string]any{"status": asset.Status, "assigned_to": user.ID},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventAssetAssigned,
		EntityID: asset.ID,
		Actor:    actor,
		Payload: events.AssetAssignedPayload{
			AssetCode:  asset.AssetCode,
			AssetName:  asset.Name,
			AssigneeID: user.ID,
		},
	})
	if s.workspace != nil {
		go s.workspace.CreateCalendarEvent(context.Background(), integrations.CalendarEvent{
			ExternalKey: asset.AssetCode,
			Title:       fmt.Sprintf("Asset handover: %s", asset.Name),
			Description: fmt.Sprintf("Handover of %s to %s", asset.AssetCode, user.Name),
			StartsAt:    now,
			Attendee:    user.Email,
		})
	}
	return asset, nil
}

// Return takes a deployed asset back into stock, clearing the assignment.
func (s *AssetService) Return(ctx context.Context, actor events.Actor, assetID string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if asset.Status != domain.AssetStatusDeployed {
		return nil, apperrors.NewValidationError("only deployed assets can be returned", nil)
	}
	return s.changeStatus(ctx, actor, asset, domain.AssetStatusInStock, "asset_returned")
}

// ChangeStatus applies a lifecycle transition outside of assignment.
func (s *AssetService) ChangeStatus(ctx context.Context, actor events.Actor, assetID string, newStatus domain.AssetStatus) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if newStatus == domain.AssetStatusDeployed {
		return nil, apperrors.NewValidationError("use assignment to deploy an asset", nil)
	}
	return s.changeStatus(ctx, actor, asset, newStatus, "asset_status_changed")
}

func (s *AssetService) changeStatus(ctx context.Context, actor events.Actor, asset *domain.Asset, newStatus domain.AssetStatus, action string) (*domain.Asset, error) {
	if !IsValidAssetTransition(asset.Status, newStatus) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("invalid asset transition: %s -> %s", asset.Status, newStatus),
			map[string]any{"current_status": asset.Status, "requested_status": newStatus},
		)
	}

	oldStatus := asset.Status
	asset.Status = newStatus
	if oldStatus == domain.AssetStatusDeployed {
		asset.AssignedTo = nil
		asset.AssignedToName = nil
		asset.AssignedAt = nil
	}

	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityAsset, asset.ID, action, actor,
		fmt.Sprintf("%s -> %s", oldStatus, newStatus),
		map[string]any{"status": oldStatus},
		map[string]any{"status": newStatus},
	)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventAssetStatusChanged,
		EntityID: asset.ID,
		Actor:    actor,
		Payload: events.AssetStatusChangedPayload{
			AssetCode: asset.AssetCode,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	if newStatus == domain.AssetStatusRetired && s.workspace != nil {
		go s.uploadDisposalRecord(asset, actor, time.Now())
	}
	return asset, nil
}

// uploadDisposalRecord files a retirement note in the document store.
func (s *AssetService) uploadDisposalRecord(asset *domain.Asset, actor events.Actor, retiredAt time.Time) {
	record := fmt.Sprintf("Asset %s (%s) retired on %s by %s\nSerial: %s\nCategory: %s\n",
		asset.AssetCode, asset.Name, retiredAt.Format("2006-01-02"), actor.Name,
		asset.SerialNumber, asset.Category)
	s.workspace.UploadToDrive(context.Background(), integrations.DriveUpload{
		ExternalKey: asset.AssetCode,
		FileName:    fmt.Sprintf("disposal-%s.txt", asset.AssetCode),
		ContentType: "text/plain",
		ContentB64:  base64.StdEncoding.EncodeToString([]byte(record)),
	})
}

// GetAsset fetches one asset with its depreciation schedule when the
// acquisition data allows computing one.
func (s *AssetService) GetAsset(ctx context.Context, assetID string) (*domain.Asset, *domain.DepreciationSchedule, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	var schedule *domain.DepreciationSchedule
	if asset.PurchaseDate != nil && asset.PurchasePrice > 0 {
		computed := ComputeDepreciation(asset.PurchasePrice, *asset.PurchaseDate, asset.Category, time.Now())
		schedule = &computed
	}
	return asset, schedule, nil
}

// ListAssets returns assets matching the filter.
func (s *AssetService) ListAssets(ctx context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	assets, err := s.assets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assets, nil
}

func (s *AssetService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
