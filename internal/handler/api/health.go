package api

import (
	xhttp "StockPulse/pkg/http"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	provider string
}

// NewHealthHandler reports liveness along with the market data provider
// in use.
func NewHealthHandler(provider string) *HealthHandler {
	return &HealthHandler{provider: provider}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status":   "ok",
		"provider": h.provider,
	})
}
