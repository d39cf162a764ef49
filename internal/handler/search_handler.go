package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type searchService interface {
	OpenSearch(ctx context.Context, sessionID string, req dto.OpenSearchRequest) (service.SearchPage, []string, error)
	UpdateSearchOptions(sessionID string, req dto.SearchOptionsRequest) (service.SearchPage, error)
	AdvanceSearch(sessionID string) (service.SearchPage, error)
	SearchResults(sessionID string) (service.SearchPage, []string, error)
	CloseSearch(sessionID string) error
	CommitLecture(ctx context.Context, sessionID string, req dto.CommitLectureRequest) (*models.Timetable, error)
}

// SearchHandler drives the catalog search dialog of the current session.
type SearchHandler struct {
	service searchService
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(service searchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Open godoc
// @Summary Open the search dialog
// @Description Loads the catalog, resets the filters and seeds day and period from the clicked cell.
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.OpenSearchRequest true "Target table and optional cell"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /search/open [post]
func (h *SearchHandler) Open(c *gin.Context) {
	var req dto.OpenSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search payload"))
		return
	}
	page, majors, err := h.service.OpenSearch(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeSearchPage(c, page, majors)
}

// Get godoc
// @Summary Current search results
// @Tags Search
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /search [get]
func (h *SearchHandler) Get(c *gin.Context) {
	page, majors, err := h.service.SearchResults(middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeSearchPage(c, page, majors)
}

// UpdateOptions godoc
// @Summary Change search filters
// @Description Replaces every filter and goes back to the first page.
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.SearchOptionsRequest true "Filters"
// @Success 200 {object} response.Envelope
// @Router /search/options [patch]
func (h *SearchHandler) UpdateOptions(c *gin.Context) {
	var req dto.SearchOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search options"))
		return
	}
	page, err := h.service.UpdateSearchOptions(middleware.SessionID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeSearchPage(c, page, nil)
}

// Advance godoc
// @Summary Reveal the next page
// @Description Sent when the client scrolls near the end of the revealed results. Safe to repeat.
// @Tags Search
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /search/advance [post]
func (h *SearchHandler) Advance(c *gin.Context) {
	page, err := h.service.AdvanceSearch(middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeSearchPage(c, page, nil)
}

// Commit godoc
// @Summary Add a lecture to the dialog's table
// @Description Parses the lecture schedule, appends its entries and closes the dialog.
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CommitLectureRequest true "Lecture"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /search/commit [post]
func (h *SearchHandler) Commit(c *gin.Context) {
	var req dto.CommitLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid commit payload"))
		return
	}
	table, err := h.service.CommitLecture(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTableResponse(table), nil)
}

// Close godoc
// @Summary Close the search dialog
// @Tags Search
// @Security BearerAuth
// @Success 204
// @Router /search [delete]
func (h *SearchHandler) Close(c *gin.Context) {
	if err := h.service.CloseSearch(middleware.SessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func writeSearchPage(c *gin.Context, page service.SearchPage, majors []string) {
	pagination := page.Pagination
	response.JSON(c, http.StatusOK, dto.SearchResponse{
		TableID:  page.TableID,
		Option:   page.Option,
		Lectures: page.Lectures,
		Majors:   majorOptions(majors),
	}, &pagination)
}

func majorOptions(majors []string) []dto.MajorOption {
	if majors == nil {
		return nil
	}
	out := make([]dto.MajorOption, 0, len(majors))
	for _, major := range majors {
		out = append(out, dto.MajorOption{Value: major, Label: service.MajorLabel(major)})
	}
	return out
}
