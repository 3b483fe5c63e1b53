package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/persistence"
	"github.com/spec-kit/asset-service/internal/repository"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardSummary aggregates fleet-wide counts for the landing view.
type DashboardSummary struct {
	AssetsByStatus    map[domain.AssetStatus]int    `json:"assets_by_status"`
	TotalAssetValue   int64                         `json:"total_asset_value"`
	TicketsByStatus   map[domain.TicketStatus]int   `json:"tickets_by_status"`
	TicketsByPriority map[domain.TicketPriority]int `json:"tickets_by_priority"`
	ExpiringSoonCount int                           `json:"expiring_soon_count"`
	GeneratedAt       time.Time                     `json:"generated_at"`
}

// ReportService builds the dashboard summary, caching it briefly in Redis
// so repeated loads don't hammer the aggregate queries.
type ReportService struct {
	assets        repository.AssetRepository
	tickets       repository.TicketRepository
	subscriptions repository.SubscriptionRepository
	cache         *persistence.Redis
	cacheTTL      time.Duration
	soonDays      int
	logger        *zap.Logger
}

// NewReportService builds the service. expiringSoonDays <= 0 falls back
// to the default window.
func NewReportService(
	assets repository.AssetRepository,
	tickets repository.TicketRepository,
	subscriptions repository.SubscriptionRepository,
	cache *persistence.Redis,
	cacheTTL time.Duration,
	expiringSoonDays int,
	logger *zap.Logger,
) *ReportService {
	if expiringSoonDays <= 0 {
		expiringSoonDays = defaultExpiringSoonDays
	}
	return &ReportService{
		assets:        assets,
		tickets:       tickets,
		subscriptions: subscriptions,
		cache:         cache,
		cacheTTL:      cacheTTL,
		soonDays:      expiringSoonDays,
		logger:        logger,
	}
}

// DashboardSummary returns the cached summary, rebuilding it on a miss.
// Cache failures fall through to a fresh build.
func (s *ReportService) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	summary, err := s.buildSummary(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, summary)
	return summary, nil
}

func (s *ReportService) buildSummary(ctx context.Context) (*DashboardSummary, error) {
	assetCounts, err := s.assets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totalValue, err := s.assets.SumPurchasePrice(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticketCounts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	priorityCounts, err := s.tickets.CountByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	expiring, err := s.subscriptions.CountExpiringWithin(ctx, time.Now(), s.soonDays)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &DashboardSummary{
		AssetsByStatus:    assetCounts,
		TotalAssetValue:   totalValue,
		TicketsByStatus:   ticketCounts,
		TicketsByPriority: priorityCounts,
		ExpiringSoonCount: expiring,
		GeneratedAt:       time.Now(),
	}, nil
}

func (s *ReportService) readCache(ctx context.Context) *DashboardSummary {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var summary DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		s.logger.Warn("dashboard cache decode failed", zap.Error(err))
		return nil
	}
	return &summary
}

func (s *ReportService) writeCache(ctx context.Context, summary *DashboardSummary) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, dashboardCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}
