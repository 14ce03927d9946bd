package handler

import (
	"net/http"

	"github.com/damon-houk/receipt-processor/internal/infrastructure/logger"
	"github.com/gorilla/mux"
)

// HealthHandler reports process liveness
type HealthHandler struct {
	logger logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(log logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &HealthHandler{logger: log}
}

// Health responds with a static ok status
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, HealthResponse{Status: "ok"})
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
}
