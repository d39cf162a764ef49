package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// PostgresCatalogRepository reads catalog sources from the lectures table:
//
//	lectures(source text, position int, id text, title text, credits text,
//	         major text, schedule text, grade int)
//
// Rows keep their published order through position.
type PostgresCatalogRepository struct {
	db      *sqlx.DB
	metrics queryObserver
}

// NewPostgresCatalogRepository constructs a PostgresCatalogRepository. metrics may be nil.
func NewPostgresCatalogRepository(db *sqlx.DB, metrics queryObserver) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db, metrics: metrics}
}

// Fetch loads every lecture of one source.
func (r *PostgresCatalogRepository) Fetch(ctx context.Context, source models.CatalogSource) ([]models.Lecture, error) {
	const query = `SELECT id, title, credits, major, schedule, grade FROM lectures WHERE source = $1 ORDER BY position, id`

	start := time.Now()
	var lectures []models.Lecture
	err := r.db.SelectContext(ctx, &lectures, query, string(source))
	if r.metrics != nil {
		r.metrics.ObserveDBQuery("catalog_fetch", time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("list lectures for %s: %w", source, err)
	}
	if lectures == nil {
		lectures = []models.Lecture{}
	}
	return lectures, nil
}
