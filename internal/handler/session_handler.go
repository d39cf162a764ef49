package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type sessionService interface {
	Create(ctx context.Context) (*models.SessionInfo, *service.TableSet, error)
	Delete(sessionID string) error
	Reset(sessionID string) (*service.TableSet, error)
}

// SessionHandler issues and discards timetable sessions.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler builds a SessionHandler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Create godoc
// @Summary Start a timetable session
// @Description Creates a session with one empty table and returns its bearer token.
// @Tags Sessions
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	info, tables, err := h.service.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SessionResponse{
		ID:        info.ID,
		Token:     info.Token,
		ExpiresAt: &info.ExpiresAt,
		Tables:    dto.NewTablesResponse(tables.Tables()),
	})
}

// Delete godoc
// @Summary End the current session
// @Tags Sessions
// @Security BearerAuth
// @Success 204
// @Router /sessions/current [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(middleware.SessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reset godoc
// @Summary Reset the current session
// @Description Drops every table, the drag in progress and the search dialog.
// @Tags Sessions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions/current/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	tables, err := h.service.Reset(sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SessionResponse{ID: sessionID, Tables: dto.NewTablesResponse(tables.Tables())}, nil)
}
