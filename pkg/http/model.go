package http

// APIResponse is the success envelope.
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// APIErrorResponse is the failure envelope.
type APIErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Symbol and name are required"`
	Code    string `json:"code,omitempty" example:"ERR_BAD_REQUEST"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"symbol"`
	Message string                 `json:"message,omitempty" example:"symbol is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
