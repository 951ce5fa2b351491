// Package handler contains the HTTP handlers of the journal API.
package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers GET / so a browser hit shows the API is alive.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Healthz is the liveness probe for load balancers; it involves no
// dependencies.
func Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// HealthHandler groups the endpoints that inspect the database
// connection directly.
type HealthHandler struct {
	DB *sql.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

// HealthDB handles GET /health/db.  It proves the connection works and
// lists the visible tables so a missing migration is obvious at a
// glance.
func (h *HealthHandler) HealthDB(c echo.Context) error {
	ctx := c.Request().Context()

	var one int
	if err := h.DB.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"db_ok": false, "error": err.Error()})
	}

	rows, err := h.DB.QueryContext(ctx, `SHOW TABLES`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"db_ok": false, "error": err.Error()})
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"db_ok": false, "error": err.Error()})
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"db_ok": false, "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"db_ok":    true,
		"select_1": one,
		"tables":   tables,
	})
}

// DebugDB handles GET /debug/db and reports which database the server
// actually talks to.  Useful when several environments share a host.
func (h *HealthHandler) DebugDB(c echo.Context) error {
	var (
		currentDB sql.NullString
		host      string
		port      int
	)
	err := h.DB.QueryRowContext(c.Request().Context(),
		`SELECT DATABASE() AS current_db, @@hostname AS host, @@port AS port`).
		Scan(&currentDB, &host, &port)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"current_db": currentDB.String,
		"host":       host,
		"port":       port,
	})
}
