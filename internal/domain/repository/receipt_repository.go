// Package repository internal/domain/repository/receipt_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
)

// ReceiptRepository defines the interface for receipt storage.
// Entries are never updated or removed once created.
type ReceiptRepository interface {
	// Create stores a receipt under a newly generated unique ID and returns that ID
	Create(ctx context.Context, receipt *entity.Receipt) (string, error)

	// FindByID retrieves a receipt by its ID, or entity.ErrReceiptNotFound
	FindByID(ctx context.Context, id string) (*entity.Receipt, error)
}
