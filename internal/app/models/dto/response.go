package dto

import "time"

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse wraps an error detail in a failed envelope.
func NewErrorResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   detail.Message,
		Error:     detail,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of a list.
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"github"`
}
