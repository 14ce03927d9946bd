package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a single purchased line on a receipt
type Item struct {
	ShortDescription string
	Price            decimal.Decimal
}

// ClockTime is a 24-hour wall clock time with minute precision
type ClockTime struct {
	Hour   int
	Minute int
}

// MinutesSinceMidnight returns the clock time as an offset from 00:00
func (c ClockTime) MinutesSinceMidnight() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Receipt represents a validated purchase record
type Receipt struct {
	Retailer     string
	PurchaseDate time.Time
	PurchaseTime ClockTime
	Items        []Item
	Total        decimal.Decimal
}

// Clone returns a copy that shares no mutable state with r
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}

	clone := *r
	clone.Items = make([]Item, len(r.Items))
	copy(clone.Items, r.Items)

	return &clone
}
