package sqlite

import (
	"context"
	"fmt"
	"log/slog"
)

// cascade is everything one delete removes. It is collected in full before
// anything is deleted, then applied leaf to root: payments, then
// transactions with their split and tag rows, then the group. Applying it
// again after a partial failure deletes only what is left.
type cascade struct {
	groupID        string
	transactionIDs []string
	paymentIDs     []string
}

// collectGroup gathers a group's transactions and their payments.
func collectGroup(ctx context.Context, q querier, groupID string) (*cascade, error) {
	txIDs, err := selectIDs(ctx, q, "SELECT id FROM transactions WHERE group_id = ?", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect group transactions: %w", err)
	}

	c := &cascade{groupID: groupID, transactionIDs: txIDs}
	if err := c.collectPayments(ctx, q); err != nil {
		return nil, err
	}
	return c, nil
}

// collectTransaction gathers one transaction's payments.
func collectTransaction(ctx context.Context, q querier, transactionID string) (*cascade, error) {
	c := &cascade{transactionIDs: []string{transactionID}}
	if err := c.collectPayments(ctx, q); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cascade) collectPayments(ctx context.Context, q querier) error {
	if len(c.transactionIDs) == 0 {
		return nil
	}
	in, args := inClause(c.transactionIDs)
	ids, err := selectIDs(ctx, q, "SELECT id FROM payments WHERE transaction_id IN "+in, args...)
	if err != nil {
		return fmt.Errorf("failed to collect payments: %w", err)
	}
	c.paymentIDs = ids
	return nil
}

func (c *cascade) apply(ctx context.Context, q querier) error {
	if err := deleteIn(ctx, q, "payments", "id", c.paymentIDs); err != nil {
		return err
	}
	for _, table := range []string{"transaction_splits", "transaction_tags"} {
		if err := deleteIn(ctx, q, table, "transaction_id", c.transactionIDs); err != nil {
			return err
		}
	}
	if err := deleteIn(ctx, q, "transactions", "id", c.transactionIDs); err != nil {
		return err
	}

	if c.groupID != "" {
		if _, err := q.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", c.groupID); err != nil {
			return fmt.Errorf("failed to delete group members: %w", err)
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", c.groupID); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
	}

	slog.Debug("Cascade delete applied",
		"group_id", c.groupID,
		"transactions", len(c.transactionIDs),
		"payments", len(c.paymentIDs),
	)
	return nil
}

func selectIDs(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func deleteIn(ctx context.Context, q querier, table, column string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	in, args := inClause(ids)
	if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+column+" IN "+in, args...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}
