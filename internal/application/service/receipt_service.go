// Package service internal/application/service/receipt_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/damon-houk/receipt-processor/internal/domain/points"
	"github.com/damon-houk/receipt-processor/internal/domain/repository"
	"github.com/damon-houk/receipt-processor/internal/domain/validation"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/cache"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/logger"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/metrics"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/middleware"
)

// ReceiptService handles business logic for receipts
type ReceiptService struct {
	repo      repository.ReceiptRepository
	validator *validation.Validator
	cache     *cache.PointsCache
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(repo repository.ReceiptRepository, m *metrics.Metrics, log logger.Logger) *ReceiptService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if m == nil {
		m = metrics.New()
	}

	pointsCache := cache.NewPointsCache()
	if err := m.RegisterPointsCache(pointsCache); err != nil {
		log.Warn("Points cache metrics not registered", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &ReceiptService{
		repo:      repo,
		validator: validation.NewValidator(),
		cache:     pointsCache,
		metrics:   m,
		logger:    log,
	}
}

// ProcessReceipt validates and stores a receipt, returning its new ID
func (s *ReceiptService) ProcessReceipt(ctx context.Context, input *validation.ReceiptInput) (string, error) {
	requestID := middleware.GetRequestID(ctx)

	receipt, err := s.validator.Validate(input)
	if err != nil {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			s.metrics.ValidationFailures.WithLabelValues(ve.Field()).Inc()
			s.logger.Warn("Receipt failed validation", map[string]interface{}{
				"request_id": requestID,
				"violations": ve.Violations,
			})
			return "", err
		}
		return "", fmt.Errorf("failed to validate receipt: %w", err)
	}

	id, err := s.repo.Create(ctx, receipt)
	if err != nil {
		s.logger.Error("Failed to store receipt", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}

	s.metrics.ReceiptsProcessed.Inc()
	s.logger.Info("Receipt stored", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
		"retailer":   receipt.Retailer,
		"items":      len(receipt.Items),
	})

	return id, nil
}

// GetReceipt retrieves a stored receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, id string) (*entity.Receipt, error) {
	return s.repo.FindByID(ctx, id)
}

// GetPoints returns the points awarded to the receipt stored under id.
// Points are computed on first lookup and memoised afterwards.
func (s *ReceiptService) GetPoints(ctx context.Context, id string) (int64, error) {
	requestID := middleware.GetRequestID(ctx)

	if cached, ok := s.cache.Get(id); ok {
		s.metrics.PointsLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}

	receipt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrReceiptNotFound) {
			s.metrics.PointsLookups.WithLabelValues("not_found").Inc()
			return 0, err
		}

		s.metrics.PointsLookups.WithLabelValues("error").Inc()
		s.logger.Error("Failed to retrieve receipt for points", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		return 0, fmt.Errorf("failed to retrieve receipt: %w", err)
	}

	total := points.Calculate(receipt)

	s.logger.Debug("Points computed", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
		"points":     total,
		"breakdown":  points.Breakdown(receipt),
	})

	s.cache.Put(id, total)
	s.metrics.PointsLookups.WithLabelValues("computed").Inc()
	s.metrics.PointsAwarded.Observe(float64(total))

	return total, nil
}
