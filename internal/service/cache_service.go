package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

const catalogCachePrefix = "catalog:"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CacheService is the optional shared cache that sits between the in-process
// catalog cache and the catalog origin. A nil *CacheService is valid and
// behaves as a cache that always misses.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCacheService constructs a cache service. A nil repo disables caching.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.repo != nil
}

// CatalogKey is the cache key of one catalog source.
func CatalogKey(source models.CatalogSource) string {
	return catalogCachePrefix + string(source)
}

// GetLectures loads a cached catalog source. Misses and backend failures both
// report false; failures are logged since the origin is still available.
func (s *CacheService) GetLectures(ctx context.Context, source models.CatalogSource) ([]models.Lecture, bool) {
	if !s.Enabled() {
		return nil, false
	}
	key := CatalogKey(source)
	var lectures []models.Lecture
	start := time.Now()
	err := s.repo.Get(ctx, key, &lectures)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return lectures, true
}

// SetLectures stores a catalog source with the configured TTL.
func (s *CacheService) SetLectures(ctx context.Context, source models.CatalogSource, lectures []models.Lecture) error {
	if !s.Enabled() {
		return nil
	}
	key := CatalogKey(source)
	start := time.Now()
	err := s.repo.Set(ctx, key, lectures, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}
