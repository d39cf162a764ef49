package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type gestureService interface {
	StartGesture(sessionID string, req dto.GestureStartRequest) (bool, error)
	EndGesture(sessionID string, req dto.GestureEndRequest) (*models.Timetable, bool, error)
	CancelGesture(sessionID string) error
}

// GestureHandler receives drag events for timetable entries.
type GestureHandler struct {
	service gestureService
}

// NewGestureHandler builds a GestureHandler.
func NewGestureHandler(service gestureService) *GestureHandler {
	return &GestureHandler{service: service}
}

// Start godoc
// @Summary Begin dragging an entry
// @Tags Gestures
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.GestureStartRequest true "Drag identifier <tableId>:<entryIndex>"
// @Success 200 {object} response.Envelope
// @Router /gestures/start [post]
func (h *GestureHandler) Start(c *gin.Context) {
	var req dto.GestureStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid gesture payload"))
		return
	}
	started, err := h.service.StartGesture(middleware.SessionID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"started": started}, nil)
}

// End godoc
// @Summary Drop a dragged entry
// @Description Snaps the displacement to the grid and moves the entry. Unknown identifiers are ignored.
// @Tags Gestures
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.GestureEndRequest true "Drag identifier and displacement"
// @Success 200 {object} response.Envelope
// @Router /gestures/end [post]
func (h *GestureHandler) End(c *gin.Context) {
	var req dto.GestureEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid gesture payload"))
		return
	}
	table, moved, err := h.service.EndGesture(middleware.SessionID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.GestureResponse{Moved: moved}
	if table != nil {
		tr := dto.NewTableResponse(table)
		resp.Table = &tr
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Cancel godoc
// @Summary Abandon the drag in progress
// @Tags Gestures
// @Security BearerAuth
// @Success 204
// @Router /gestures/cancel [post]
func (h *GestureHandler) Cancel(c *gin.Context) {
	if err := h.service.CancelGesture(middleware.SessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
