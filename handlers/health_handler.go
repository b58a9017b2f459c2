package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/pkg/session"
)

type HealthHandler struct {
	db       *sqlx.DB
	sessions *session.Store
}

func NewHealthHandler(db *sqlx.DB, sessions *session.Store) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions}
}

// Health godoc
// @Summary Health check
// @Description Reports the service status and its dependencies
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	dbStatus := "up"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "down"
	}

	sessionStatus := "up"
	if h.sessions == nil {
		sessionStatus = "not configured"
	} else if err := h.sessions.Ping(ctx); err != nil {
		sessionStatus = "down"
	}

	status := "ok"
	code := http.StatusOK
	if dbStatus == "down" || sessionStatus == "down" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]any{
		"status":   status,
		"database": dbStatus,
		"sessions": sessionStatus,
	})
}
