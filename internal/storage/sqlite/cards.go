package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

const cardColumns = "id, name, type, color, created_at"

// CreateCard persists a new card.
func (s *SQLiteStore) CreateCard(ctx context.Context, card *models.Card) error {
	card.ID = newID(card.ID)
	card.CreatedAt = s.stamp()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO cards ("+cardColumns+") VALUES (?, ?, ?, ?, ?)",
		card.ID, card.Name, string(card.Type), card.Color, toMillis(card.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

// GetCard retrieves a card by ID.
func (s *SQLiteStore) GetCard(ctx context.Context, cardID string) (*models.Card, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM cards WHERE id = ?", cardID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("card", cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// ListCards retrieves all cards in creation order.
func (s *SQLiteStore) ListCards(ctx context.Context) ([]*models.Card, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+cardColumns+" FROM cards ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// UpdateCard replaces the mutable fields of an existing card.
func (s *SQLiteStore) UpdateCard(ctx context.Context, card *models.Card) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cards SET name = ?, type = ?, color = ? WHERE id = ?",
		card.Name, string(card.Type), card.Color, card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return checkAffected(res, "card", card.ID)
}

// DeleteCard removes a card. Its transactions keep their card ID.
func (s *SQLiteStore) DeleteCard(ctx context.Context, cardID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}

func scanCard(row rowScanner) (*models.Card, error) {
	card := &models.Card{}
	var cardType string
	var createdAt int64
	if err := row.Scan(&card.ID, &card.Name, &cardType, &card.Color, &createdAt); err != nil {
		return nil, err
	}
	card.Type = models.CardType(cardType)
	card.CreatedAt = fromMillis(createdAt)
	return card, nil
}
