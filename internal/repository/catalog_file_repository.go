package repository

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// FileCatalogRepository reads catalog sources from local JSON or YAML files.
// It backs offline tooling and fixtures.
type FileCatalogRepository struct {
	paths map[models.CatalogSource]string
}

// NewFileCatalogRepository constructs a FileCatalogRepository.
func NewFileCatalogRepository(paths map[models.CatalogSource]string) *FileCatalogRepository {
	return &FileCatalogRepository{paths: paths}
}

// Fetch decodes one source file. JSON is read through the YAML decoder.
func (r *FileCatalogRepository) Fetch(_ context.Context, source models.CatalogSource) ([]models.Lecture, error) {
	path, ok := r.paths[source]
	if !ok {
		return nil, fmt.Errorf("unknown catalog source %q", source)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", source, err)
	}
	var lectures []models.Lecture
	if err := yaml.Unmarshal(raw, &lectures); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", source, err)
	}
	if lectures == nil {
		lectures = []models.Lecture{}
	}
	return lectures, nil
}
