package api

import (
	"context"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

type HistoricalSource interface {
	GetHistorical(ctx context.Context, p usecase.GetHistoricalParams) ([]models.Candle, error)
}

type SymbolSearcher interface {
	Search(query string) []models.SymbolInfo
}

// MarketHandler serves raw price history and symbol search.
type MarketHandler struct {
	historical HistoricalSource
	symbols    SymbolSearcher
	logger     *xlogger.Logger
}

func NewMarketHandler(historical HistoricalSource, symbols SymbolSearcher, logger *xlogger.Logger) *MarketHandler {
	return &MarketHandler{historical: historical, symbols: symbols, logger: logger}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/historical", h.Historical)
	g.GET("/symbols", h.Symbols)
}

func (h *MarketHandler) Historical(c echo.Context) error {
	req := &models.HistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}

	candles, err := h.historical.GetHistorical(c.Request().Context(), usecase.GetHistoricalParams{
		Symbol: req.Symbol,
		Period: req.Period,
	})
	if err != nil {
		return respondError(c, h.logger, "historical failed", err)
	}

	rows := make([]models.HistoricalRow, len(candles))
	for i, k := range candles {
		rows[i] = models.HistoricalRow{
			Date:   util.FormatDate(k.Date),
			Open:   k.Open,
			High:   k.High,
			Low:    k.Low,
			Close:  k.Close,
			Volume: k.Volume,
		}
	}
	return xhttp.SuccessResponse(c, rows)
}

func (h *MarketHandler) Symbols(c echo.Context) error {
	req := &models.SymbolSearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.symbols.Search(req.Query))
}
