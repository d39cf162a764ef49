package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Sessions *SessionHandler
	Tables   *TableHandler
	Gestures *GestureHandler
	Search   *SearchHandler
	Catalog  *CatalogHandler
	Metrics  *MetricsHandler
}

// RegisterRoutes mounts the API on r. guard resolves the session token for
// every route that works on session state.
func RegisterRoutes(r gin.IRouter, h Handlers, guard gin.HandlerFunc) {
	r.GET("/grid", h.Tables.Grid)
	r.GET("/catalog", h.Catalog.List)
	r.POST("/sessions", h.Sessions.Create)
	if h.Metrics != nil {
		r.GET("/metrics/summary", h.Metrics.Summary)
	}

	secured := r.Group("", guard)

	sessions := secured.Group("/sessions/current")
	sessions.DELETE("", h.Sessions.Delete)
	sessions.POST("/reset", h.Sessions.Reset)

	tables := secured.Group("/tables")
	tables.GET("", h.Tables.List)
	tables.GET("/:id", h.Tables.Get)
	tables.POST("/:id/duplicate", h.Tables.Duplicate)
	tables.DELETE("/:id", h.Tables.Remove)
	tables.DELETE("/:id/entries", h.Tables.RemoveEntries)
	tables.GET("/:id/export", h.Tables.Export)

	gestures := secured.Group("/gestures")
	gestures.POST("/start", h.Gestures.Start)
	gestures.POST("/end", h.Gestures.End)
	gestures.POST("/cancel", h.Gestures.Cancel)

	search := secured.Group("/search")
	search.GET("", h.Search.Get)
	search.DELETE("", h.Search.Close)
	search.POST("/open", h.Search.Open)
	search.PATCH("/options", h.Search.UpdateOptions)
	search.POST("/advance", h.Search.Advance)
	search.POST("/commit", h.Search.Commit)
}
