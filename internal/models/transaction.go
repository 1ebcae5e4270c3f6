package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one shared expense inside a group.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group.
	GroupID string `json:"groupId"`

	// CardID is the card the expense was charged to. Empty means no card;
	// such transactions are bucketed under NoCardID when aggregating.
	CardID string `json:"cardId,omitempty"`

	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Date        time.Time       `json:"date"`

	// PaidByPersonID is who fronted the money. The payer does not need a
	// split entry of their own.
	PaidByPersonID string `json:"paidByPersonId"`

	// Splits holds one entry per group member, in form order.
	Splits []PersonSplit `json:"splits"`

	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PersonSplit is one person's share of a transaction.
// An excluded person always has a zero CalculatedAmount.
type PersonSplit struct {
	PersonID   string `json:"personId"`
	IsIncluded bool   `json:"isIncluded"`

	// FixedAmount is the part of the share the person pays regardless of the
	// equal split. Nil when the person only takes an equal share.
	FixedAmount *decimal.Decimal `json:"fixedAmount,omitempty"`

	// CalculatedAmount is the fixed amount plus the equal share.
	CalculatedAmount decimal.Decimal `json:"calculatedAmount"`
}

// Participant is one person's entry on a split form, before calculation.
type Participant struct {
	PersonID    string           `json:"personId"`
	IsIncluded  bool             `json:"isIncluded"`
	FixedAmount *decimal.Decimal `json:"fixedAmount,omitempty"`
}

// Participants turns existing splits back into form entries.
func (t *Transaction) Participants() []Participant {
	out := make([]Participant, len(t.Splits))
	for i, s := range t.Splits {
		out[i] = Participant{PersonID: s.PersonID, IsIncluded: s.IsIncluded, FixedAmount: s.FixedAmount}
	}
	return out
}

// SplitFor returns the split entry of personID, if any.
func (t *Transaction) SplitFor(personID string) (PersonSplit, bool) {
	for _, s := range t.Splits {
		if s.PersonID == personID {
			return s, true
		}
	}
	return PersonSplit{}, false
}

// Includes reports whether personID has an included split entry.
func (t *Transaction) Includes(personID string) bool {
	s, ok := t.SplitFor(personID)
	return ok && s.IsIncluded
}

// Validate checks required fields and split invariants.
func (t *Transaction) Validate() error {
	if t.GroupID == "" {
		return invalid("groupId", "must not be empty")
	}
	if strings.TrimSpace(t.Description) == "" {
		return invalid("description", "must not be empty")
	}
	if !t.TotalAmount.IsPositive() {
		return invalid("totalAmount", "must be greater than zero")
	}
	if t.PaidByPersonID == "" {
		return invalid("paidByPersonId", "must not be empty")
	}
	if t.Date.IsZero() {
		return invalid("date", "must be set")
	}
	for _, s := range t.Splits {
		if err := s.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s PersonSplit) validate() error {
	if s.PersonID == "" {
		return invalid("splits.personId", "must not be empty")
	}
	if s.FixedAmount != nil && s.FixedAmount.IsNegative() {
		return invalid("splits.fixedAmount", "must not be negative")
	}
	if s.CalculatedAmount.IsNegative() {
		return invalid("splits.calculatedAmount", "must not be negative")
	}
	if !s.IsIncluded && !s.CalculatedAmount.IsZero() {
		return invalid("splits.calculatedAmount", "must be zero for an excluded person")
	}
	return nil
}

// ValidateParticipants checks split form entries before calculation.
func ValidateParticipants(participants []Participant) error {
	for _, p := range participants {
		if p.PersonID == "" {
			return invalid("participants.personId", "must not be empty")
		}
		if p.FixedAmount != nil && p.FixedAmount.IsNegative() {
			return invalid("participants.fixedAmount", "must not be negative")
		}
	}
	return nil
}

// TransactionUpdate lists the mutable fields of a Transaction.
//
// TotalAmount and Participants are not applied by Apply: a new total with
// no participants rescales the existing splits, new participants recompute
// them. The service layer decides which.
type TransactionUpdate struct {
	Description    *string          `json:"description,omitempty"`
	CardID         *string          `json:"cardId,omitempty"` // "" clears the card
	Date           *time.Time       `json:"date,omitempty"`
	PaidByPersonID *string          `json:"paidByPersonId,omitempty"`
	Tags           *[]string        `json:"tags,omitempty"`
	TotalAmount    *decimal.Decimal `json:"totalAmount,omitempty"`
	Participants   *[]Participant   `json:"participants,omitempty"`
}

// Apply copies the plain fields onto t.
func (u TransactionUpdate) Apply(t *Transaction) {
	if u.Description != nil {
		t.Description = strings.TrimSpace(*u.Description)
	}
	if u.CardID != nil {
		t.CardID = *u.CardID
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.PaidByPersonID != nil {
		t.PaidByPersonID = *u.PaidByPersonID
	}
	if u.Tags != nil {
		t.Tags = CleanTags(*u.Tags)
	}
}

// CleanTags trims tags and drops empty ones.
func CleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
