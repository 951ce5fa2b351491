// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/satomiya/keikocho/internal/handler"
)

// Handlers groups the constructed handlers the route table needs.  The
// caller builds them once and hands them over; the router never touches
// the database or configuration itself.
type Handlers struct {
	Health  *handler.HealthHandler
	Lessons *handler.LessonHandler
	Entries *handler.RoleEntryHandler
	Items   *handler.ItemHandler
	Search  *handler.SearchHandler
}

// Register attaches every route of the journal API to the provided Echo
// instance.  The API is flat: no version prefix and no authentication,
// the journal belongs to the single configured owner.
func Register(e *echo.Echo, h Handlers) {
	// ---- System ----
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Healthz)
	e.GET("/health/db", h.Health.HealthDB)
	e.GET("/debug/db", h.Health.DebugDB)

	// ---- Lessons ----
	e.POST("/lessons", h.Lessons.Create)
	e.GET("/lessons", h.Lessons.List)
	e.GET("/lessons/:id", h.Lessons.Detail)

	// ---- Records within a lesson ----
	e.POST("/lessons/:id/role-entries", h.Entries.Create)
	e.POST("/lessons/:id/items", h.Items.Create)

	// ---- Search ----
	e.GET("/search", h.Search.Search)
}
