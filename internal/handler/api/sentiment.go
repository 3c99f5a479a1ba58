package api

import (
	"context"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type SentimentSource interface {
	GetSentiment(ctx context.Context, symbol string, days int) (*models.SentimentReport, error)
}

type SentimentHandler struct {
	uc     SentimentSource
	logger *xlogger.Logger
}

func NewSentimentHandler(uc SentimentSource, logger *xlogger.Logger) *SentimentHandler {
	return &SentimentHandler{uc: uc, logger: logger}
}

func (h *SentimentHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/sentiment", h.Sentiment)
}

func (h *SentimentHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}

	report, err := h.uc.GetSentiment(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		return respondError(c, h.logger, "sentiment failed", err)
	}
	return xhttp.SuccessResponse(c, report)
}
