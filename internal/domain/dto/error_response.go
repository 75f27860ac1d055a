package dto

import "time"

// ErrorResponse is the standardized JSON error body returned by every endpoint.
//
// Example:
//
//	{
//	  "message": "failed to fetch history",
//	  "error": "price store unavailable: context deadline exceeded",
//	  "timestamp": "2025-09-18T12:00:00Z"
//	}
type ErrorResponse struct {
	Message      string    `json:"message" example:"failed to fetch history"`
	ErrorDetails string    `json:"error,omitempty" example:"price store unavailable"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so the response can travel through gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
//
// Parameters:
//   - message: human-readable summary.
//   - err: optional underlying error; its text becomes ErrorDetails.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
