package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
)

// CatalogFetcher is implemented by every catalog backend.
type CatalogFetcher interface {
	Fetch(ctx context.Context, source models.CatalogSource) ([]models.Lecture, error)
}

// OpenCatalogBackend builds the backend selected by cfg.Backend. The returned
// close func releases whatever the backend holds and is never nil.
func OpenCatalogBackend(cfg config.CatalogConfig, db config.DatabaseConfig, metrics queryObserver, logger *zap.Logger) (CatalogFetcher, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.CatalogBackendHTTP, "":
		return NewHTTPCatalogRepository(cfg.BaseURL, map[models.CatalogSource]string{
			models.CatalogSourceMajors:      cfg.MajorsPath,
			models.CatalogSourceLiberalArts: cfg.LiberalArtsPath,
		}, cfg.HTTPTimeout, logger), noop, nil
	case config.CatalogBackendFile:
		return NewFileCatalogRepository(map[models.CatalogSource]string{
			models.CatalogSourceMajors:      cfg.MajorsFile,
			models.CatalogSourceLiberalArts: cfg.LiberalArtsFile,
		}), noop, nil
	case config.CatalogBackendPostgres:
		conn, err := database.NewPostgres(db)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresCatalogRepository(conn, metrics), conn.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}
