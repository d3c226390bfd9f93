package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/analytics"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const analyticsCacheKey = "analytics:report"

// AnalyticsService produces the admin analytics report from a fresh
// complaint snapshot, with a short-lived Redis cache in front. The
// aggregation itself is pure; staleness is bounded by the cache TTL.
type AnalyticsService struct {
	complaints repository.ComplaintRepository
	cache      *persistence.Redis
	cfg        config.AnalyticsConfig
	logger     *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(complaints repository.ComplaintRepository, cache *persistence.Redis, cfg config.AnalyticsConfig, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		complaints: complaints,
		cache:      cache,
		cfg:        cfg,
		logger:     logger,
	}
}

// Report returns the analytics bundle for the admin dashboard.
func (s *AnalyticsService) Report(ctx context.Context) (*analytics.Report, error) {
	if cached, err := s.cache.GetBytes(ctx, analyticsCacheKey); err != nil {
		s.logger.Warn("analytics cache read failed", zap.Error(err))
	} else if cached != nil {
		var report analytics.Report
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
		s.logger.Warn("analytics cache entry malformed; recomputing")
	}

	snapshot, err := s.complaints.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	report := analytics.Aggregate(snapshot, time.Now(), s.cfg.Location())

	if payload, err := json.Marshal(report); err == nil {
		if err := s.cache.SetBytes(ctx, analyticsCacheKey, payload, s.cfg.CacheTTL()); err != nil {
			s.logger.Warn("analytics cache write failed", zap.Error(err))
		}
	}
	return &report, nil
}
