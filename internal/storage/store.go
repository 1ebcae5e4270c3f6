// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is wrapped by every lookup or update of a missing record.
var ErrNotFound = errors.New("not found")

// Store defines the entity storage operations of the ledger.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Create methods fill in a missing ID and the creation timestamps. Update
// methods replace the whole record, re-stamp UpdatedAt where the record has
// one, and wrap ErrNotFound when the ID is unknown. Delete methods are
// idempotent: deleting a missing record returns nil.
type Store interface {
	CreatePerson(ctx context.Context, person *models.Person) error
	GetPerson(ctx context.Context, personID string) (*models.Person, error)
	ListPersons(ctx context.Context) ([]*models.Person, error)
	UpdatePerson(ctx context.Context, person *models.Person) error
	DeletePerson(ctx context.Context, personID string) error

	CreateCard(ctx context.Context, card *models.Card) error
	GetCard(ctx context.Context, cardID string) (*models.Card, error)
	ListCards(ctx context.Context) ([]*models.Card, error)
	UpdateCard(ctx context.Context, card *models.Card) error
	DeleteCard(ctx context.Context, cardID string) error

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group, its transactions, and their payments.
	DeleteGroup(ctx context.Context, groupID string) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)

	// ListTransactionsByGroup returns the group's transactions newest first.
	ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error)
	ListTransactionsByCard(ctx context.Context, cardID string) ([]*models.Transaction, error)

	// ListTransactionsByDate returns transactions dated in [from, to).
	ListTransactionsByDate(ctx context.Context, from, to time.Time) ([]*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes the transaction and its payments.
	DeleteTransaction(ctx context.Context, transactionID string) error

	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPayments(ctx context.Context) ([]*models.Payment, error)
	ListPaymentsByTransaction(ctx context.Context, transactionID string) ([]*models.Payment, error)
	ListPaymentsByPerson(ctx context.Context, personID string) ([]*models.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error

	GetMonthlyCardStatus(ctx context.Context, statusID string) (*models.MonthlyCardStatus, error)
	ListMonthlyCardStatuses(ctx context.Context) ([]*models.MonthlyCardStatus, error)
	ListMonthlyCardStatusesByCard(ctx context.Context, cardID string) ([]*models.MonthlyCardStatus, error)
	ListMonthlyCardStatusesByYear(ctx context.Context, year int) ([]*models.MonthlyCardStatus, error)

	// UpsertMonthlyCardStatus inserts the status or overwrites the one with
	// the same ID. The ID is always recomputed from card, year and month.
	UpsertMonthlyCardStatus(ctx context.Context, status *models.MonthlyCardStatus) error

	// Close releases any resources held by the store.
	Close() error
}
