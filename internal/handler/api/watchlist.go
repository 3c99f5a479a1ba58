package api

import (
	"context"
	"net/url"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type Watchlist interface {
	List(ctx context.Context) ([]models.WatchlistItem, error)
	Add(ctx context.Context, symbol, name string) ([]models.WatchlistItem, error)
	Remove(ctx context.Context, symbol string) ([]models.WatchlistItem, error)
}

type WatchlistHandler struct {
	uc     Watchlist
	logger *xlogger.Logger
}

func NewWatchlistHandler(uc Watchlist, logger *xlogger.Logger) *WatchlistHandler {
	return &WatchlistHandler{uc: uc, logger: logger}
}

func (h *WatchlistHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/watchlist")
	g.GET("", h.List)
	g.POST("", h.Add)
	g.DELETE("/:symbol", h.Remove)
}

func (h *WatchlistHandler) List(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, "watchlist list failed", err)
	}
	return xhttp.SuccessResponse(c, items)
}

// Add answers 200, not 201, with the updated list.
func (h *WatchlistHandler) Add(c echo.Context) error {
	req := &models.WatchlistAddRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}

	items, err := h.uc.Add(c.Request().Context(), req.Symbol, req.Name)
	if err != nil {
		return respondError(c, h.logger, "watchlist add failed", err)
	}
	return xhttp.SuccessResponse(c, items)
}

func (h *WatchlistHandler) Remove(c echo.Context) error {
	symbol, err := url.PathUnescape(c.Param("symbol"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid symbol %q", c.Param("symbol")))
	}

	items, err := h.uc.Remove(c.Request().Context(), symbol)
	if err != nil {
		return respondError(c, h.logger, "watchlist remove failed", err)
	}
	return xhttp.SuccessResponse(c, items)
}
