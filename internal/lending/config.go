package lending

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"librarydesk/internal/models"
)

const (
	DefaultBorrowPeriod = 14
	DefaultMaxBooks     = models.DefaultMaxBooks
)

// DefaultFinePerDay is the late fee charged for each day past due
var DefaultFinePerDay = decimal.NewFromInt(1)

// Config holds the lending policy
type Config struct {
	FinePerDay   decimal.Decimal
	MaxBooks     int
	BorrowPeriod int
}

// DefaultConfig returns the standard policy: $1.00 per day, 5 books, 14 days
func DefaultConfig() Config {
	return Config{
		FinePerDay:   DefaultFinePerDay,
		MaxBooks:     DefaultMaxBooks,
		BorrowPeriod: DefaultBorrowPeriod,
	}
}

// Validate fills unset limits with defaults and rejects a negative fine rate
func (c *Config) Validate() error {
	if c.FinePerDay.IsNegative() {
		return fmt.Errorf("fine per day must not be negative, got %s", c.FinePerDay)
	}
	if !models.WholeCents(c.FinePerDay) {
		return fmt.Errorf("fine per day must be in whole cents, got %s", c.FinePerDay)
	}
	if c.MaxBooks <= 0 {
		c.MaxBooks = DefaultMaxBooks
	}
	if c.BorrowPeriod <= 0 {
		c.BorrowPeriod = DefaultBorrowPeriod
	}
	return nil
}

// Option configures a Library
type Option func(*Library)

// WithClock replaces the wall clock used for every date the Library records
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		l.now = now
	}
}
