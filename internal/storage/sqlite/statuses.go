package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

const statusColumns = "id, card_id, year, month, is_paid, paid_at"

// GetMonthlyCardStatus retrieves a status by its composite ID.
func (s *SQLiteStore) GetMonthlyCardStatus(ctx context.Context, statusID string) (*models.MonthlyCardStatus, error) {
	status, err := scanStatus(s.db.QueryRowContext(ctx,
		"SELECT "+statusColumns+" FROM monthly_card_status WHERE id = ?",
		statusID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("monthly card status", statusID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly card status: %w", err)
	}
	return status, nil
}

// ListMonthlyCardStatuses retrieves every status.
func (s *SQLiteStore) ListMonthlyCardStatuses(ctx context.Context) ([]*models.MonthlyCardStatus, error) {
	return s.listStatuses(ctx, "")
}

// ListMonthlyCardStatusesByCard retrieves the statuses of one card.
func (s *SQLiteStore) ListMonthlyCardStatusesByCard(ctx context.Context, cardID string) ([]*models.MonthlyCardStatus, error) {
	return s.listStatuses(ctx, "WHERE card_id = ?", cardID)
}

// ListMonthlyCardStatusesByYear retrieves the statuses of one year.
func (s *SQLiteStore) ListMonthlyCardStatusesByYear(ctx context.Context, year int) ([]*models.MonthlyCardStatus, error) {
	return s.listStatuses(ctx, "WHERE year = ?", year)
}

// UpsertMonthlyCardStatus inserts a status or overwrites the existing one
// for the same card, year and month. The key is validated first, since an
// out-of-range year or month could build the ID of another card's row.
func (s *SQLiteStore) UpsertMonthlyCardStatus(ctx context.Context, status *models.MonthlyCardStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	status.ID = models.StatusID(status.CardID, status.Year, status.Month)

	var paidAt any
	if status.PaidAt != nil {
		paidAt = toMillis(*status.PaidAt)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_card_status (`+statusColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET is_paid = excluded.is_paid, paid_at = excluded.paid_at`,
		status.ID, status.CardID, status.Year, status.Month, status.IsPaid, paidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly card status: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listStatuses(ctx context.Context, where string, args ...any) ([]*models.MonthlyCardStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+statusColumns+" FROM monthly_card_status "+where+" ORDER BY year, month, card_id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly card statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*models.MonthlyCardStatus
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly card status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly card statuses: %w", err)
	}

	return statuses, nil
}

func scanStatus(row rowScanner) (*models.MonthlyCardStatus, error) {
	status := &models.MonthlyCardStatus{}
	var paidAt sql.NullInt64
	if err := row.Scan(&status.ID, &status.CardID, &status.Year, &status.Month, &status.IsPaid, &paidAt); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := fromMillis(paidAt.Int64)
		status.PaidAt = &t
	}
	return status, nil
}
