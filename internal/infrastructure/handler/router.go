package handler

import (
	"net/http"

	"github.com/damon-houk/receipt-processor/internal/infrastructure/logger"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/metrics"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RouterDependencies collects handler dependencies
type RouterDependencies struct {
	Receipts *ReceiptHandler
	Health   *HealthHandler
	// Metrics is optional; when nil neither instrumentation nor /metrics is installed
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

// NewRouter wires the HTTP routes and middleware chain
func NewRouter(deps RouterDependencies) *mux.Router {
	log := deps.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()

	// Outermost first. Metrics wrap recovery so recovered panics are counted.
	chain := []mux.MiddlewareFunc{middleware.RequestIDMiddleware}
	if deps.Metrics != nil {
		chain = append(chain, middleware.MetricsMiddleware(deps.Metrics))
		router.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
	}
	chain = append(chain,
		middleware.RecoveryMiddleware(log),
		middleware.LoggingMiddleware(log),
	)
	router.Use(chain...)

	if deps.Health != nil {
		deps.Health.RegisterRoutes(router)
	}
	if deps.Receipts != nil {
		deps.Receipts.RegisterRoutes(router)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Not found",
			"The requested resource does not exist", http.StatusNotFound, "")
	})

	return router
}
