package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

const indexFlightKey = "index"

// CatalogRepository reads one catalog source from its origin.
type CatalogRepository interface {
	Fetch(ctx context.Context, source models.CatalogSource) ([]models.Lecture, error)
}

// CatalogService fetches the lecture catalog. Each source is requested from
// the origin at most once at a time, and a settled result is reused for the
// life of the process. Failed fetches are not remembered.
type CatalogService struct {
	repo    CatalogRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	settled map[models.CatalogSource][]*models.Lecture
	index   *LectureIndex
}

// NewCatalogService constructs a catalog service. cache and metrics may be nil.
func NewCatalogService(repo CatalogRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		settled: make(map[models.CatalogSource][]*models.Lecture, len(models.CatalogSources)),
	}
}

// FetchSource returns the lectures of one source. Concurrent callers for the
// same source share a single origin request. The request itself outlives ctx;
// a caller whose ctx ends stops waiting for it.
func (s *CatalogService) FetchSource(ctx context.Context, source models.CatalogSource) ([]*models.Lecture, error) {
	if lectures, ok := s.settledSource(source); ok {
		s.logger.Debug("catalog cache used", zap.String("source", string(source)))
		s.metrics.RecordCatalogFetch(source, CatalogFetchMemory)
		return lectures, nil
	}

	ch := s.group.DoChan(string(source), func() (interface{}, error) {
		if lectures, ok := s.settledSource(source); ok {
			return lectures, nil
		}
		lectures, err := s.load(context.WithoutCancel(ctx), source)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.settled[source] = lectures
		s.mu.Unlock()
		return lectures, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("catalog request joined", zap.String("source", string(source)))
			s.metrics.RecordCatalogFetch(source, CatalogFetchShared)
		}
		return res.Val.([]*models.Lecture), nil
	}
}

// FetchCatalog fetches every source concurrently and merges them in source
// order.
func (s *CatalogService) FetchCatalog(ctx context.Context) ([]*models.Lecture, error) {
	parts := make([][]*models.Lecture, len(models.CatalogSources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range models.CatalogSources {
		g.Go(func() error {
			lectures, err := s.FetchSource(gctx, source)
			if err != nil {
				return err
			}
			parts[i] = lectures
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, part := range parts {
		total += len(part)
	}
	merged := make([]*models.Lecture, 0, total)
	for _, part := range parts {
		merged = append(merged, part...)
	}
	return merged, nil
}

// Index returns the searchable index of the full catalog, built once.
func (s *CatalogService) Index(ctx context.Context) (*LectureIndex, error) {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	v, err, _ := s.group.Do(indexFlightKey, func() (interface{}, error) {
		s.mu.RLock()
		idx := s.index
		s.mu.RUnlock()
		if idx != nil {
			return idx, nil
		}
		lectures, err := s.FetchCatalog(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		idx = NewLectureIndex(lectures)
		s.mu.Lock()
		s.index = idx
		s.mu.Unlock()
		s.logger.Info("catalog indexed", zap.Int("lectures", idx.Len()), zap.Int("majors", len(idx.Majors())))
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*LectureIndex), nil
}

// Lookup finds a lecture in the catalog by id.
func (s *CatalogService) Lookup(ctx context.Context, id string) (*models.Lecture, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	lecture, ok := idx.Lookup(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrLectureNotFound, "lecture "+id+" not found in catalog")
	}
	return lecture, nil
}

// Warm loads and indexes the catalog. It is meant for background start-up jobs.
func (s *CatalogService) Warm(ctx context.Context) error {
	_, err := s.Index(ctx)
	return err
}

// Ready reports whether the catalog has been indexed.
func (s *CatalogService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index != nil
}

func (s *CatalogService) settledSource(source models.CatalogSource) ([]*models.Lecture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lectures, ok := s.settled[source]
	return lectures, ok
}

func (s *CatalogService) load(ctx context.Context, source models.CatalogSource) ([]*models.Lecture, error) {
	if rows, ok := s.cache.GetLectures(ctx, source); ok {
		s.logger.Info("catalog loaded from shared cache", zap.String("source", string(source)), zap.Int("lectures", len(rows)))
		s.metrics.RecordCatalogFetch(source, CatalogFetchRedis)
		return toPointers(rows), nil
	}

	s.logger.Info("catalog fetch started", zap.String("source", string(source)))
	rows, err := s.repo.Fetch(ctx, source)
	if err != nil {
		s.logger.Warn("catalog fetch failed", zap.String("source", string(source)), zap.Error(err))
		s.metrics.RecordCatalogFetch(source, CatalogFetchError)
		return nil, appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "failed to fetch "+string(source)+" catalog")
	}
	s.metrics.RecordCatalogFetch(source, CatalogFetchOrigin)
	_ = s.cache.SetLectures(ctx, source, rows)
	return toPointers(rows), nil
}

func toPointers(rows []models.Lecture) []*models.Lecture {
	out := make([]*models.Lecture, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
