package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// maxCatalogBytes bounds a catalog response body.
const maxCatalogBytes = 64 << 20

// HTTPCatalogRepository reads catalog sources served as JSON arrays over HTTP.
type HTTPCatalogRepository struct {
	client  *http.Client
	baseURL string
	paths   map[models.CatalogSource]string
	logger  *zap.Logger
}

// NewHTTPCatalogRepository constructs a repository for sources published under baseURL.
func NewHTTPCatalogRepository(baseURL string, paths map[models.CatalogSource]string, timeout time.Duration, logger *zap.Logger) *HTTPCatalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPCatalogRepository{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		paths:   paths,
		logger:  logger,
	}
}

// Fetch downloads and decodes one catalog source.
func (r *HTTPCatalogRepository) Fetch(ctx context.Context, source models.CatalogSource) ([]models.Lecture, error) {
	path, ok := r.paths[source]
	if !ok {
		return nil, fmt.Errorf("unknown catalog source %q", source)
	}
	url := r.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request %s: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch catalog %s: unexpected status %d", source, resp.StatusCode)
	}

	var lectures []models.Lecture
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBytes)).Decode(&lectures); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", source, err)
	}

	r.logger.Debug("catalog downloaded",
		zap.String("source", string(source)),
		zap.String("url", url),
		zap.Int("lectures", len(lectures)),
		zap.Duration("duration", time.Since(start)),
	)
	return lectures, nil
}
