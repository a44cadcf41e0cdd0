package api

import "time"

// ListResponse wraps a page of projection records.
type ListResponse struct {
	Items      interface{}      `json:"items"`
	Pagination PaginationResult `json:"pagination"`
}

// PaginationResult contains pagination metadata.
type PaginationResult struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`

	// LastBlock is the last fully processed block, absent before the
	// first cycle completes.
	LastBlock *uint64 `json:"last_block,omitempty"`
}
