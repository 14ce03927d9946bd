package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
)

// MemoryReceiptRepository implements the receipt repository interface with a
// mutex-guarded map. Contents live for the lifetime of the process.
type MemoryReceiptRepository struct {
	receipts map[string]*entity.Receipt
	newID    IDGenerator
	mutex    sync.RWMutex
}

// NewMemoryReceiptRepository creates an empty in-memory receipt repository
func NewMemoryReceiptRepository() *MemoryReceiptRepository {
	return &MemoryReceiptRepository{
		receipts: make(map[string]*entity.Receipt),
		newID:    NewUUID,
	}
}

// WithIDGenerator replaces the ID generator
func (r *MemoryReceiptRepository) WithIDGenerator(gen IDGenerator) *MemoryReceiptRepository {
	r.newID = gen
	return r
}

// Create stores a copy of the receipt under a fresh ID
func (r *MemoryReceiptRepository) Create(ctx context.Context, receipt *entity.Receipt) (string, error) {
	if receipt == nil {
		return "", fmt.Errorf("failed to store receipt: receipt is nil")
	}

	stored := receipt.Clone()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := r.newID()
		if _, taken := r.receipts[id]; taken {
			continue
		}

		r.receipts[id] = stored
		return id, nil
	}

	return "", fmt.Errorf("failed to store receipt: %w", entity.ErrIDExhausted)
}

// FindByID returns a copy of the receipt stored under id
func (r *MemoryReceiptRepository) FindByID(ctx context.Context, id string) (*entity.Receipt, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stored, ok := r.receipts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrReceiptNotFound, id)
	}

	return stored.Clone(), nil
}

// Size returns the number of stored receipts
func (r *MemoryReceiptRepository) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.receipts)
}
