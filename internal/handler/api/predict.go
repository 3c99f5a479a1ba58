package api

import (
	"context"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type Predictor interface {
	Predict(ctx context.Context, p usecase.PredictParams) (*models.PredictionResult, error)
}

// PredictHandler serves POST /api/predict. Training is expensive, so
// requests are limited per client IP.
type PredictHandler struct {
	uc      Predictor
	limiter *ratelimit.Limiter
	logger  *xlogger.Logger
}

func NewPredictHandler(uc Predictor, limiter *ratelimit.Limiter, logger *xlogger.Logger) *PredictHandler {
	return &PredictHandler{uc: uc, limiter: limiter, logger: logger}
}

func (h *PredictHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/predict", h.Predict)
}

func (h *PredictHandler) Predict(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		h.logger.Warn("predict rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many prediction requests, slow down"))
	}

	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}

	res, err := h.uc.Predict(c.Request().Context(), usecase.PredictParams{
		Symbol:    req.Symbol,
		Period:    req.Period,
		Overrides: req.ModelParams,
		HeldOut:   req.HeldOut,
	})
	if err != nil {
		return respondError(c, h.logger, "predict failed", err)
	}
	return xhttp.SuccessResponse(c, models.NewPredictResponse(res))
}
