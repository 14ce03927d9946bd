package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/damon-houk/receipt-processor/internal/domain/validation"
	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
)

const receiptKeyPrefix = "receipt:"

var errIDTaken = errors.New("receipt id already in use")

// receiptRecord is the stored JSON form of a receipt
type receiptRecord struct {
	ID           string       `json:"id"`
	Retailer     string       `json:"retailer"`
	PurchaseDate string       `json:"purchaseDate"`
	PurchaseTime string       `json:"purchaseTime"`
	Items        []itemRecord `json:"items"`
	Total        string       `json:"total"`
}

type itemRecord struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// BadgerReceiptRepository implements the receipt repository interface using BadgerDB
type BadgerReceiptRepository struct {
	db    *badger.DB
	newID IDGenerator
}

// OpenInMemoryBadger opens a BadgerDB instance that keeps all data in memory
func OpenInMemoryBadger() (*badger.DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable Badger's default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return db, nil
}

// NewBadgerReceiptRepository creates a new BadgerDB receipt repository
func NewBadgerReceiptRepository(db *badger.DB) *BadgerReceiptRepository {
	return &BadgerReceiptRepository{db: db, newID: NewUUID}
}

// WithIDGenerator replaces the ID generator
func (r *BadgerReceiptRepository) WithIDGenerator(gen IDGenerator) *BadgerReceiptRepository {
	r.newID = gen
	return r
}

func receiptKey(id string) []byte {
	return []byte(receiptKeyPrefix + id)
}

// Create stores the receipt under a fresh ID. The existence check and the
// write happen in one transaction so an ID is never overwritten.
func (r *BadgerReceiptRepository) Create(ctx context.Context, receipt *entity.Receipt) (string, error) {
	if receipt == nil {
		return "", fmt.Errorf("failed to store receipt: receipt is nil")
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		id := r.newID()
		data, err := json.Marshal(toRecord(id, receipt))
		if err != nil {
			return "", fmt.Errorf("failed to marshal receipt: %w", err)
		}

		err = r.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(receiptKey(id))
			if err == nil {
				return errIDTaken
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			return txn.Set(receiptKey(id), data)
		})

		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, errIDTaken), errors.Is(err, badger.ErrConflict):
			continue
		default:
			return "", fmt.Errorf("failed to store receipt: %w", err)
		}
	}

	return "", fmt.Errorf("failed to store receipt: %w", entity.ErrIDExhausted)
}

// FindByID retrieves a receipt by its unique identifier
func (r *BadgerReceiptRepository) FindByID(ctx context.Context, id string) (*entity.Receipt, error) {
	var rec receiptRecord

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(receiptKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", entity.ErrReceiptNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve receipt: %w", err)
	}

	return fromRecord(&rec)
}

func toRecord(id string, r *entity.Receipt) receiptRecord {
	items := make([]itemRecord, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, itemRecord{
			ShortDescription: it.ShortDescription,
			Price:            it.Price.StringFixed(2),
		})
	}

	return receiptRecord{
		ID:           id,
		Retailer:     r.Retailer,
		PurchaseDate: r.PurchaseDate.Format(validation.DateLayout),
		PurchaseTime: r.PurchaseTime.String(),
		Items:        items,
		Total:        r.Total.StringFixed(2),
	}
}

func fromRecord(rec *receiptRecord) (*entity.Receipt, error) {
	date, err := time.Parse(validation.DateLayout, rec.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode purchase date: %w", err)
	}

	clock, err := validation.ParseClock(rec.PurchaseTime)
	if err != nil {
		return nil, fmt.Errorf("failed to decode purchase time: %w", err)
	}

	total, err := decimal.NewFromString(rec.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to decode total: %w", err)
	}

	items := make([]entity.Item, 0, len(rec.Items))
	for _, it := range rec.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to decode item price: %w", err)
		}
		items = append(items, entity.Item{ShortDescription: it.ShortDescription, Price: price})
	}

	return &entity.Receipt{
		Retailer:     rec.Retailer,
		PurchaseDate: date,
		PurchaseTime: clock,
		Items:        items,
		Total:        total,
	}, nil
}
