package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment settles part or all of one person's share of a transaction.
// Nothing caps a payment at the amount owed; overpayment is allowed.
type Payment struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transactionId"`
	PersonID      string          `json:"personId"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paidAt"`
}

// Validate checks references and amount.
func (p *Payment) Validate() error {
	if p.TransactionID == "" {
		return invalid("transactionId", "must not be empty")
	}
	if p.PersonID == "" {
		return invalid("personId", "must not be empty")
	}
	if !p.Amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	return nil
}
