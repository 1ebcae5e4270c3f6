package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

const transactionColumns = "id, group_id, card_id, description, total_amount, date, paid_by_person_id, created_at, updated_at"

// detailBatch caps the IN list when loading splits and tags.
const detailBatch = 500

// CreateTransaction persists a new transaction with its splits and tags.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.ID = newID(tx.ID)
	tx.CreatedAt = s.stamp()
	tx.UpdatedAt = tx.CreatedAt

	return s.inTx(ctx, func(q querier) error {
		_, err := q.ExecContext(ctx,
			"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			tx.ID, tx.GroupID, nullableString(tx.CardID), tx.Description, tx.TotalAmount.String(),
			toMillis(tx.Date), tx.PaidByPersonID, toMillis(tx.CreatedAt), toMillis(tx.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		return insertDetails(ctx, q, tx)
	})
}

// GetTransaction retrieves a transaction by ID, including splits and tags.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	tx, err := scanTransaction(s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?",
		transactionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if err := attachDetails(ctx, s.db, []*models.Transaction{tx}); err != nil {
		return nil, err
	}
	return tx, nil
}

// ListTransactions retrieves every transaction ordered by date.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return s.listTransactions(ctx, "", oldestFirst)
}

// ListTransactionsByGroup retrieves the transactions of one group, newest first.
func (s *SQLiteStore) ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error) {
	return s.listTransactions(ctx, "WHERE group_id = ?", newestFirst, groupID)
}

// ListTransactionsByCard retrieves the transactions charged to a card.
// models.NoCardID selects transactions without a card.
func (s *SQLiteStore) ListTransactionsByCard(ctx context.Context, cardID string) ([]*models.Transaction, error) {
	if cardID == models.NoCardID {
		return s.listTransactions(ctx, "WHERE card_id IS NULL", oldestFirst)
	}
	return s.listTransactions(ctx, "WHERE card_id = ?", oldestFirst, cardID)
}

// ListTransactionsByDate retrieves transactions dated in [from, to).
func (s *SQLiteStore) ListTransactionsByDate(ctx context.Context, from, to time.Time) ([]*models.Transaction, error) {
	return s.listTransactions(ctx, "WHERE date >= ? AND date < ?", oldestFirst, toMillis(from), toMillis(to))
}

// UpdateTransaction replaces an existing transaction, its splits and its tags.
// CreatedAt is kept as stored.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.UpdatedAt = s.stamp()

	return s.inTx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx,
			`UPDATE transactions
			 SET group_id = ?, card_id = ?, description = ?, total_amount = ?, date = ?, paid_by_person_id = ?, updated_at = ?
			 WHERE id = ?`,
			tx.GroupID, nullableString(tx.CardID), tx.Description, tx.TotalAmount.String(),
			toMillis(tx.Date), tx.PaidByPersonID, toMillis(tx.UpdatedAt), tx.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if err := checkAffected(res, "transaction", tx.ID); err != nil {
			return err
		}

		for _, table := range []string{"transaction_splits", "transaction_tags"} {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE transaction_id = ?", tx.ID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return insertDetails(ctx, q, tx)
	})
}

// DeleteTransaction removes a transaction and every payment against it.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	return s.inTx(ctx, func(q querier) error {
		c, err := collectTransaction(ctx, q, transactionID)
		if err != nil {
			return err
		}
		return c.apply(ctx, q)
	})
}

const (
	oldestFirst = "date, created_at, id"
	newestFirst = "date DESC, created_at DESC, id DESC"
)

func (s *SQLiteStore) listTransactions(ctx context.Context, where, order string, args ...any) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions "+where+" ORDER BY "+order,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	if err := attachDetails(ctx, s.db, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func insertDetails(ctx context.Context, q querier, tx *models.Transaction) error {
	for i, split := range tx.Splits {
		var fixed any
		if split.FixedAmount != nil {
			fixed = split.FixedAmount.String()
		}
		_, err := q.ExecContext(ctx,
			`INSERT INTO transaction_splits (transaction_id, position, person_id, is_included, fixed_amount, calculated_amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			tx.ID, i, split.PersonID, split.IsIncluded, fixed, split.CalculatedAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	for i, tag := range tx.Tags {
		_, err := q.ExecContext(ctx,
			"INSERT INTO transaction_tags (transaction_id, position, tag) VALUES (?, ?, ?)",
			tx.ID, i, tag,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tag: %w", err)
		}
	}
	return nil
}

// attachDetails loads splits and tags for txs in batches.
func attachDetails(ctx context.Context, q querier, txs []*models.Transaction) error {
	byID := make(map[string]*models.Transaction, len(txs))
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
		ids = append(ids, tx.ID)
	}

	for start := 0; start < len(ids); start += detailBatch {
		end := min(start+detailBatch, len(ids))
		in, args := inClause(ids[start:end])

		if err := loadSplits(ctx, q, byID, in, args); err != nil {
			return err
		}
		if err := loadTags(ctx, q, byID, in, args); err != nil {
			return err
		}
	}
	return nil
}

func loadSplits(ctx context.Context, q querier, byID map[string]*models.Transaction, in string, args []any) error {
	rows, err := q.QueryContext(ctx,
		`SELECT transaction_id, person_id, is_included, fixed_amount, calculated_amount
		 FROM transaction_splits WHERE transaction_id IN `+in+` ORDER BY transaction_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID string
		var split models.PersonSplit
		var fixed decimal.NullDecimal
		if err := rows.Scan(&txID, &split.PersonID, &split.IsIncluded, &fixed, &split.CalculatedAmount); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if fixed.Valid {
			split.FixedAmount = &fixed.Decimal
		}
		tx := byID[txID]
		tx.Splits = append(tx.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

func loadTags(ctx context.Context, q querier, byID map[string]*models.Transaction, in string, args []any) error {
	rows, err := q.QueryContext(ctx,
		"SELECT transaction_id, tag FROM transaction_tags WHERE transaction_id IN "+in+" ORDER BY transaction_id, position",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID, tag string
		if err := rows.Scan(&txID, &tag); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		tx := byID[txID]
		tx.Tags = append(tx.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate tags: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	tx := &models.Transaction{Splits: []models.PersonSplit{}}
	var cardID sql.NullString
	var date, createdAt, updatedAt int64
	if err := row.Scan(&tx.ID, &tx.GroupID, &cardID, &tx.Description, &tx.TotalAmount,
		&date, &tx.PaidByPersonID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	tx.CardID = cardID.String
	tx.Date = fromMillis(date)
	tx.CreatedAt = fromMillis(createdAt)
	tx.UpdatedAt = fromMillis(updatedAt)
	return tx, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
