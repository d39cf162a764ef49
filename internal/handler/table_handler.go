package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type tableService interface {
	Layout() models.GridLayout
	Tables(sessionID string) (*service.TableSet, error)
	Table(sessionID, tableID string) (*models.Timetable, error)
	DuplicateTable(sessionID, tableID string) (*models.Timetable, error)
	RemoveTable(sessionID, tableID string) error
	RemoveEntriesAt(sessionID, tableID string, query dto.RemoveEntriesQuery) (*models.Timetable, error)
}

type tableExporter interface {
	Export(table *models.Timetable, format string) (*service.ExportResult, error)
}

// TableHandler exposes the timetables of the current session.
type TableHandler struct {
	service  tableService
	exporter tableExporter
}

// NewTableHandler builds a TableHandler.
func NewTableHandler(service tableService, exporter tableExporter) *TableHandler {
	return &TableHandler{service: service, exporter: exporter}
}

// Grid godoc
// @Summary Describe the timetable grid
// @Tags Tables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid [get]
func (h *TableHandler) Grid(c *gin.Context) {
	layout := h.service.Layout()
	labels := service.PeriodLabels(layout.Periods)
	periods := make([]dto.PeriodLabel, 0, len(labels))
	for i, label := range labels {
		periods = append(periods, dto.PeriodLabel{Period: i + 1, Label: label})
	}
	response.JSON(c, http.StatusOK, dto.GridResponse{
		Days:             layout.Days,
		Periods:          periods,
		CellWidth:        layout.CellWidth,
		CellHeight:       layout.CellHeight,
		DayHeaderWidth:   layout.DayHeaderWidth,
		TimeHeaderHeight: layout.TimeHeaderHeight,
	}, nil)
}

// List godoc
// @Summary List timetables
// @Tags Tables
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tables [get]
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.service.Tables(middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTablesResponse(tables.Tables()), nil)
}

// Get godoc
// @Summary Get one timetable
// @Tags Tables
// @Security BearerAuth
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id} [get]
func (h *TableHandler) Get(c *gin.Context) {
	table, err := h.service.Table(middleware.SessionID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTableResponse(table), nil)
}

// Duplicate godoc
// @Summary Duplicate a timetable
// @Description Copies the table under a fresh id. Entries are shared with the source.
// @Tags Tables
// @Security BearerAuth
// @Produce json
// @Param id path string true "Table ID"
// @Success 201 {object} response.Envelope
// @Router /tables/{id}/duplicate [post]
func (h *TableHandler) Duplicate(c *gin.Context) {
	table, err := h.service.DuplicateTable(middleware.SessionID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewTableResponse(table))
}

// Remove godoc
// @Summary Remove a timetable
// @Description The last remaining table cannot be removed.
// @Tags Tables
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /tables/{id} [delete]
func (h *TableHandler) Remove(c *gin.Context) {
	if err := h.service.RemoveTable(middleware.SessionID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveEntries godoc
// @Summary Remove the entries covering a cell
// @Tags Tables
// @Security BearerAuth
// @Produce json
// @Param id path string true "Table ID"
// @Param day query string true "Day label"
// @Param period query int true "Period number"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/entries [delete]
func (h *TableHandler) RemoveEntries(c *gin.Context) {
	var query dto.RemoveEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cell query"))
		return
	}
	table, err := h.service.RemoveEntriesAt(middleware.SessionID(c), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTableResponse(table), nil)
}

// Export godoc
// @Summary Export a timetable
// @Tags Tables
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Table ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /tables/{id}/export [get]
func (h *TableHandler) Export(c *gin.Context) {
	table, err := h.service.Table(middleware.SessionID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.Export(table, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}
