package http

import (
	"fmt"
	"net/http"
)

// AppError is an error that knows the HTTP status it should be served as.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError attaches the cause. The cause is logged, never served.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Field: field, Message: message, Status: status}
}

// statusCodes are the envelope codes for the statuses the API serves.
var statusCodes = map[int]string{
	http.StatusBadRequest:          "ERR_BAD_REQUEST",
	http.StatusNotFound:            "ERR_NOT_FOUND",
	http.StatusUnprocessableEntity: "ERR_UNPROCESSABLE",
	http.StatusTooManyRequests:     "ERR_RATE_LIMITED",
	http.StatusInternalServerError: "ERR_INTERNAL",
	http.StatusBadGateway:          "ERR_UPSTREAM",
	http.StatusServiceUnavailable:  "ERR_BUSY",
	http.StatusGatewayTimeout:      "ERR_TIMEOUT",
}

// ErrorForStatus builds an AppError whose code follows from status.
func ErrorForStatus(status int, message string) *AppError {
	code, ok := statusCodes[status]
	if !ok {
		code = "ERR_HTTP_" + fmt.Sprint(status)
	}
	return NewAppError(code, "", message, status)
}

func BadRequestError(message string) *AppError {
	return ErrorForStatus(http.StatusBadRequest, message)
}

func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return BadRequestError(fmt.Sprintf(format, a...))
}

func NotFoundError(message string) *AppError {
	return ErrorForStatus(http.StatusNotFound, message)
}

// UnprocessableError is for well formed input the pipeline cannot serve,
// such as a history too short to train on.
func UnprocessableError(message string) *AppError {
	return ErrorForStatus(http.StatusUnprocessableEntity, message)
}

func TooManyRequestsError(message string) *AppError {
	return ErrorForStatus(http.StatusTooManyRequests, message)
}

func InternalError(message string) *AppError {
	return ErrorForStatus(http.StatusInternalServerError, message)
}

// BadGatewayError is for failures of market data and news providers.
func BadGatewayError(message string) *AppError {
	return ErrorForStatus(http.StatusBadGateway, message)
}

func ServiceUnavailableError(message string) *AppError {
	return ErrorForStatus(http.StatusServiceUnavailable, message)
}

func GatewayTimeoutError(message string) *AppError {
	return ErrorForStatus(http.StatusGatewayTimeout, message)
}
