package handler

import (
	"encoding/json"
	"net/http"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/logger"
)

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	writeErrorResponse(w, log, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}

// sendValidationErrorResponse reports every violated receipt constraint
func sendValidationErrorResponse(w http.ResponseWriter, log logger.Logger, ve *entity.ValidationError, requestID string) {
	writeErrorResponse(w, log, ErrorResponse{
		Error:       "Invalid receipt",
		Status:      http.StatusBadRequest,
		Description: ve.Error(),
		RequestID:   requestID,
		Violations:  ve.Violations,
	})
}

func writeErrorResponse(w http.ResponseWriter, log logger.Logger, resp ErrorResponse) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  resp.RequestID,
		"status_code": resp.Status,
		"message":     resp.Error,
	})

	writeJSON(w, log, resp.Status, resp)
}

func writeJSON(w http.ResponseWriter, log logger.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"status_code": statusCode,
			"error":       err.Error(),
		})
	}
}
