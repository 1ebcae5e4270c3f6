package models

import (
	"fmt"
	"time"
)

// MonthlyCardStatus records whether a card's bill for one month is paid.
// There is at most one per (card, year, month); ID is StatusID of those.
type MonthlyCardStatus struct {
	ID     string `json:"id"`
	CardID string `json:"cardId"`
	Year   int    `json:"year"`

	// Month is zero-based: January is 0, December is 11.
	Month int `json:"month"`

	IsPaid bool `json:"isPaid"`

	// PaidAt is set only while IsPaid is true.
	PaidAt *time.Time `json:"paidAt,omitempty"`
}

// StatusID builds the composite key of a monthly status.
// cardID may be NoCardID.
func StatusID(cardID string, year, month int) string {
	return fmt.Sprintf("%s-%d-%d", cardID, year, month)
}

// ValidateMonth checks that month is in 0..11.
func ValidateMonth(month int) error {
	if month < 0 || month > 11 {
		return invalid("month", "must be between 0 and 11")
	}
	return nil
}

// ValidateYear checks that year is positive. A negative year would make
// StatusID collide with a card ID ending in a dash.
func ValidateYear(year int) error {
	if year < 1 {
		return invalid("year", "must be positive")
	}
	return nil
}

// Validate checks the card reference, year and month.
func (s *MonthlyCardStatus) Validate() error {
	if s.CardID == "" {
		return invalid("cardId", "must not be empty")
	}
	if err := ValidateYear(s.Year); err != nil {
		return err
	}
	return ValidateMonth(s.Month)
}
