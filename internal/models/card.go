package models

import (
	"strings"
	"time"
)

// CardType is the kind of account a card represents.
type CardType string

const (
	CardCredit  CardType = "credit"
	CardDebit   CardType = "debit"
	CardAccount CardType = "account"
)

// Valid reports whether t is one of the known card types.
func (t CardType) Valid() bool {
	switch t {
	case CardCredit, CardDebit, CardAccount:
		return true
	}
	return false
}

// NoCardID is the bucket transactions without a card fall into when
// aggregating. It is never stored as a Card.
const NoCardID = "no-card"

// Card is a payment instrument transactions can be charged to.
type Card struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      CardType  `json:"type"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks name and type.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if !c.Type.Valid() {
		return invalid("type", "must be one of credit, debit, account")
	}
	return nil
}

// CardUpdate lists the mutable fields of a Card.
type CardUpdate struct {
	Name  *string   `json:"name,omitempty"`
	Type  *CardType `json:"type,omitempty"`
	Color *string   `json:"color,omitempty"`
}

// Apply copies the set fields onto c.
func (u CardUpdate) Apply(c *Card) {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Type != nil {
		c.Type = *u.Type
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
}
