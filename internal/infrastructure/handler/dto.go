package handler

import "github.com/damon-houk/receipt-processor/internal/domain/entity"

// ProcessReceiptResponse represents the response for the process receipt endpoint
type ProcessReceiptResponse struct {
	ID string `json:"id"`
}

// PointsResponse represents the response for the points endpoint
type PointsResponse struct {
	Points int64 `json:"points"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string             `json:"error"`
	Status      int                `json:"status"`
	Description string             `json:"description,omitempty"`
	RequestID   string             `json:"request_id,omitempty"`
	Violations  []entity.Violation `json:"violations,omitempty"`
}
