package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type catalogService interface {
	FetchSource(ctx context.Context, source models.CatalogSource) ([]*models.Lecture, error)
	Index(ctx context.Context) (*service.LectureIndex, error)
}

// CatalogHandler serves the lecture catalog.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a CatalogHandler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List godoc
// @Summary List catalog lectures
// @Description Returns the merged catalog, or a single source when source is given.
// @Tags Catalog
// @Produce json
// @Param source query string false "majors or liberal-arts"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var lectures []*models.Lecture
	if raw := c.Query("source"); raw != "" {
		source := models.CatalogSource(raw)
		if !knownSource(source) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown catalog source "+raw))
			return
		}
		var err error
		lectures, err = h.service.FetchSource(c.Request.Context(), source)
		if err != nil {
			response.Error(c, err)
			return
		}
	} else {
		idx, err := h.service.Index(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		lectures = idx.Lectures()
	}

	majors := service.NewLectureIndex(lectures).Majors()
	response.JSON(c, http.StatusOK, dto.CatalogResponse{Lectures: lectures, Majors: majorOptions(majors)}, nil,
		map[string]interface{}{"count": len(lectures)})
}

func knownSource(source models.CatalogSource) bool {
	for _, s := range models.CatalogSources {
		if s == source {
			return true
		}
	}
	return false
}
