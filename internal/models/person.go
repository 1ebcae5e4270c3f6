package models

import (
	"strings"
	"time"
)

// Person is someone who takes part in shared expenses.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// CreatedAt is when the person was first stored.
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the fields a caller must provide.
func (p *Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return nil
}

// PersonUpdate lists the mutable fields of a Person.
type PersonUpdate struct {
	Name *string `json:"name,omitempty"`
}

// Apply copies the set fields onto p.
func (u PersonUpdate) Apply(p *Person) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
}
