package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreatePerson persists a new person.
func (s *SQLiteStore) CreatePerson(ctx context.Context, person *models.Person) error {
	person.ID = newID(person.ID)
	person.CreatedAt = s.stamp()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO persons (id, name, created_at) VALUES (?, ?, ?)",
		person.ID, person.Name, toMillis(person.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	person := &models.Person{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM persons WHERE id = ?",
		personID,
	).Scan(&person.ID, &person.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("person", personID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	person.CreatedAt = fromMillis(createdAt)
	return person, nil
}

// ListPersons retrieves all persons in creation order.
func (s *SQLiteStore) ListPersons(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM persons ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*models.Person
	for rows.Next() {
		person := &models.Person{}
		var createdAt int64
		if err := rows.Scan(&person.ID, &person.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		person.CreatedAt = fromMillis(createdAt)
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

// UpdatePerson replaces the mutable fields of an existing person.
func (s *SQLiteStore) UpdatePerson(ctx context.Context, person *models.Person) error {
	res, err := s.db.ExecContext(ctx, "UPDATE persons SET name = ? WHERE id = ?", person.Name, person.ID)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return checkAffected(res, "person", person.ID)
}

// DeletePerson removes a person. Splits and payments that reference the
// person are left untouched.
func (s *SQLiteStore) DeletePerson(ctx context.Context, personID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", personID); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
