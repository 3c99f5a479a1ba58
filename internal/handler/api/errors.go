package api

import (
	"context"
	"errors"
	"net/http"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// fromDomainError maps pipeline and store errors to HTTP errors.
func fromDomainError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, models.ErrWatchlistInvalid):
		return xhttp.BadRequestError("Symbol and name are required").WithError(err)
	case errors.Is(err, models.ErrWatchlistDuplicate):
		return xhttp.BadRequestError("Symbol already in watchlist").WithError(err)
	case errors.Is(err, models.ErrWatchlistEmpty):
		return xhttp.NotFoundError("Watchlist is empty").WithError(err)
	case errors.Is(err, models.ErrWatchlistBusy):
		return xhttp.ServiceUnavailableError("Watchlist is being updated, retry shortly").WithError(err)
	case errors.Is(err, models.ErrDataUnavailable), errors.Is(err, models.ErrNewsUnavailable):
		return xhttp.BadGatewayError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrInsufficientData),
		errors.Is(err, models.ErrTraining),
		errors.Is(err, models.ErrUndefinedMetric):
		return xhttp.UnprocessableError(err.Error()).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.GatewayTimeoutError("request timed out").WithError(err)
	default:
		return xhttp.InternalError(err.Error()).WithError(err)
	}
}

// respondError logs err at a level matching its status and writes the
// failure envelope.
func respondError(c echo.Context, l *xlogger.Logger, msg string, err error) error {
	appErr := fromDomainError(err)
	fields := []xlogger.Field{
		xlogger.String("path", c.Path()),
		xlogger.Int("status", appErr.Status),
		xlogger.Error(err),
	}
	if appErr.Status >= http.StatusInternalServerError {
		l.Error(msg, fields...)
	} else {
		l.Warn(msg, fields...)
	}
	return xhttp.AppErrorResponse(c, appErr)
}
