package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

const paymentColumns = "id, transaction_id, person_id, amount, paid_at"

// CreatePayment persists a new payment. PaidAt defaults to now.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	payment.ID = newID(payment.ID)
	if payment.PaidAt.IsZero() {
		payment.PaidAt = s.stamp()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?)",
		payment.ID, payment.TransactionID, payment.PersonID, payment.Amount.String(), toMillis(payment.PaidAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// ListPayments retrieves every payment ordered by payment time.
func (s *SQLiteStore) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.listPayments(ctx, "")
}

// ListPaymentsByTransaction retrieves the payments against one transaction.
func (s *SQLiteStore) ListPaymentsByTransaction(ctx context.Context, transactionID string) ([]*models.Payment, error) {
	return s.listPayments(ctx, "WHERE transaction_id = ?", transactionID)
}

// ListPaymentsByPerson retrieves the payments made by one person.
func (s *SQLiteStore) ListPaymentsByPerson(ctx context.Context, personID string) ([]*models.Payment, error) {
	return s.listPayments(ctx, "WHERE person_id = ?", personID)
}

// DeletePayment removes a payment by ID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", paymentID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listPayments(ctx context.Context, where string, args ...any) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments "+where+" ORDER BY paid_at, id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		var paidAt int64
		if err := rows.Scan(&payment.ID, &payment.TransactionID, &payment.PersonID, &payment.Amount, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payment.PaidAt = fromMillis(paidAt)
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
