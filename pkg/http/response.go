package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the success envelope with the given status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// ErrorResponse writes the failure envelope.
func ErrorResponse(c echo.Context, statusCode int, code, message string) error {
	return c.JSON(statusCode, APIErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// ValidationErrorResponse writes a 400 built from validation failures.
func ValidationErrorResponse(c echo.Context, errs []ValidationError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return ErrorResponse(c, http.StatusBadRequest, "ERR_VALIDATION", strings.Join(msgs, "; "))
}

// AppErrorResponse writes err as the failure envelope. Errors that are
// not an *AppError are served as a generic 500 so internals do not leak.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Code, appErr.Message)
	}
	return ErrorResponse(c, http.StatusInternalServerError, "ERR_INTERNAL", "Something went wrong")
}
