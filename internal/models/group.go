package models

import (
	"strings"
	"time"
)

// Group is a named set of people that owns transactions.
// Deleting a group deletes its transactions and their payments.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Trip to Lisbon").
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	Color string `json:"color"`
	Icon  string `json:"icon"`

	// PersonIDs is the set of members. Order is kept for display only.
	PersonIDs []string `json:"personIds"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the group name.
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return nil
}

// HasMember reports whether personID belongs to the group.
func (g *Group) HasMember(personID string) bool {
	for _, id := range g.PersonIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// UniqueIDs drops empty and repeated IDs, keeping first appearance order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// GroupUpdate lists the mutable fields of a Group.
type GroupUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	PersonIDs   *[]string `json:"personIds,omitempty"`
}

// Apply copies the set fields onto g.
func (u GroupUpdate) Apply(g *Group) {
	if u.Name != nil {
		g.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.Color != nil {
		g.Color = *u.Color
	}
	if u.Icon != nil {
		g.Icon = *u.Icon
	}
	if u.PersonIDs != nil {
		g.PersonIDs = UniqueIDs(*u.PersonIDs)
	}
}
