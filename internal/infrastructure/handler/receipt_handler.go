package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/damon-houk/receipt-processor/internal/application/service"
	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/damon-houk/receipt-processor/internal/domain/validation"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/logger"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// maxReceiptBodyBytes caps the size of a submitted receipt
const maxReceiptBodyBytes = 1 << 20

// ReceiptHandler handles HTTP requests for receipts
type ReceiptHandler struct {
	service *service.ReceiptService
	logger  logger.Logger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(service *service.ReceiptService, log logger.Logger) *ReceiptHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ReceiptHandler{
		service: service,
		logger:  log,
	}
}

// ProcessReceipt handles submission of a new receipt
func (h *ReceiptHandler) ProcessReceipt(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling process receipt request", map[string]interface{}{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
	})

	// Parse request body
	var input validation.ReceiptInput
	if err := decodeReceipt(http.MaxBytesReader(w, r.Body, maxReceiptBodyBytes), &input); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as a receipt JSON object", http.StatusBadRequest, requestID)
		return
	}

	// Call service
	id, err := h.service.ProcessReceipt(r.Context(), &input)
	if err != nil {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			sendValidationErrorResponse(w, h.logger, ve, requestID)
			return
		}

		h.logger.Error("Unexpected error in process receipt", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while processing the receipt",
			http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Receipt processed successfully", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})

	writeJSON(w, h.logger, http.StatusOK, ProcessReceiptResponse{ID: id})
}

// GetPoints handles retrieving the points awarded to a receipt
func (h *ReceiptHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	// Get ID from URL
	id := mux.Vars(r)["id"]

	h.logger.Info("Handling get points request", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})

	// Call service
	points, err := h.service.GetPoints(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrReceiptNotFound) {
			h.logger.Warn("Receipt not found", map[string]interface{}{
				"request_id": requestID,
				"id":         id,
			})
			sendErrorResponse(w, h.logger, "Receipt not found",
				"No receipt found for that ID", http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Unexpected error in get points", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while calculating points",
			http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Points retrieved successfully", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
		"points":     points,
	})

	writeJSON(w, h.logger, http.StatusOK, PointsResponse{Points: points})
}

// RegisterRoutes registers the receipt handler routes
func (h *ReceiptHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/receipts/process", h.ProcessReceipt).Methods("POST")
	router.HandleFunc("/receipts/{id}/points", h.GetPoints).Methods("GET")

	h.logger.Info("Receipt routes registered", map[string]interface{}{
		"routes": []string{
			"POST /receipts/process",
			"GET /receipts/{id}/points",
		},
	})
}

// decodeReceipt reads exactly one JSON object from body
func decodeReceipt(body io.Reader, input *validation.ReceiptInput) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(input); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after receipt object")
		}
		return err
	}
	return nil
}
