// Package validation turns raw receipt submissions into validated entities.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the accepted purchaseDate format
	DateLayout = "2006-01-02"
	// TimeLayout is the accepted purchaseTime format
	TimeLayout = "15:04"
	// MaxAmountDigits bounds the integer part of prices and totals
	MaxAmountDigits = 15
)

var (
	moneyPattern = regexp.MustCompile(`^\d{1,15}\.\d{2}$`)
	clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ItemInput is an item as submitted over the wire
type ItemInput struct {
	ShortDescription string `json:"shortDescription" validate:"required"`
	Price            string `json:"price" validate:"required,money"`
}

// ReceiptInput is a receipt as submitted over the wire
type ReceiptInput struct {
	Retailer     string      `json:"retailer" validate:"required"`
	PurchaseDate string      `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
	PurchaseTime string      `json:"purchaseTime" validate:"required,clock"`
	Items        []ItemInput `json:"items" validate:"required,min=1,dive"`
	Total        string      `json:"total" validate:"required,money"`
}

// Validator checks receipt submissions against the receipt schema
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the receipt-specific tags registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("clock", validateClock)

	return &Validator{validate: v}
}

func validateMoney(fl validator.FieldLevel) bool {
	return IsMoney(fl.Field().String())
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := ParseClock(fl.Field().String())
	return err == nil
}

// IsMoney reports whether s is a non-negative amount with exactly two decimals
// and at most MaxAmountDigits digits before the point
func IsMoney(s string) bool {
	return moneyPattern.MatchString(s)
}

// ParseClock parses a 24-hour HH:MM time
func ParseClock(s string) (entity.ClockTime, error) {
	if !clockPattern.MatchString(s) {
		return entity.ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}

	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return entity.ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}

	return entity.ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Validate checks the input and converts it into a Receipt.
// Any failure is returned as *entity.ValidationError listing every violation.
func (v *Validator) Validate(input *ReceiptInput) (*entity.Receipt, error) {
	if input == nil {
		return nil, entity.NewValidationError("receipt", "is required")
	}

	if err := v.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return nil, toValidationError(fieldErrs)
		}
		return nil, fmt.Errorf("failed to validate receipt: %w", err)
	}

	return convert(input)
}

// convert builds the entity from input that already passed tag validation
func convert(input *ReceiptInput) (*entity.Receipt, error) {
	date, err := time.Parse(DateLayout, input.PurchaseDate)
	if err != nil {
		return nil, entity.NewValidationError("purchaseDate", describe("datetime"))
	}

	clock, err := ParseClock(input.PurchaseTime)
	if err != nil {
		return nil, entity.NewValidationError("purchaseTime", describe("clock"))
	}

	total, err := decimal.NewFromString(input.Total)
	if err != nil {
		return nil, entity.NewValidationError("total", describe("money"))
	}

	items := make([]entity.Item, 0, len(input.Items))
	for i, in := range input.Items {
		price, err := decimal.NewFromString(in.Price)
		if err != nil {
			return nil, entity.NewValidationError(fmt.Sprintf("items[%d].price", i), describe("money"))
		}
		items = append(items, entity.Item{
			ShortDescription: in.ShortDescription,
			Price:            price,
		})
	}

	return &entity.Receipt{
		Retailer:     input.Retailer,
		PurchaseDate: date,
		PurchaseTime: clock,
		Items:        items,
		Total:        total,
	}, nil
}

func toValidationError(fieldErrs validator.ValidationErrors) *entity.ValidationError {
	violations := make([]entity.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, entity.Violation{
			Field:  fieldPath(fe.Namespace()),
			Reason: describe(fe.Tag()),
		})
	}
	return &entity.ValidationError{Violations: violations}
}

// fieldPath drops the root struct name: "ReceiptInput.items[0].price" -> "items[0].price"
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "must contain at least one item"
	case "money":
		return fmt.Sprintf("must be a non-negative amount with exactly two decimal places and at most %d integer digits", MaxAmountDigits)
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "clock":
		return "must be a valid 24-hour time in HH:MM format"
	default:
		return "is invalid"
	}
}
