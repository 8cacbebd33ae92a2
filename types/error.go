package types

// ErrorDetail describes a request that was rejected before reaching a handler
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse wraps ErrorDetail for HTTP responses
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// NewError builds an ErrorResponse
func NewError(message, errType, code string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
			Code:    code,
		},
	}
}
