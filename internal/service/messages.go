package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// Person messages

// CreatePersonRequest creates a person with a trimmed, non-empty name.
type CreatePersonRequest struct {
	Name string `json:"name"`
}

// CreatePersonResponse holds the stored person.
type CreatePersonResponse struct {
	Person *models.Person `json:"person"`
}

// ListPersonsRequest lists every person.
type ListPersonsRequest struct{}

// ListPersonsResponse holds every person, never nil.
type ListPersonsResponse struct {
	Persons []*models.Person `json:"persons"`
}

// UpdatePersonRequest applies the set fields to one person.
type UpdatePersonRequest struct {
	PersonID string `json:"personId"`
	models.PersonUpdate
}

// UpdatePersonResponse holds the updated person.
type UpdatePersonResponse struct {
	Person *models.Person `json:"person"`
}

// DeletePersonRequest removes one person.
type DeletePersonRequest struct {
	PersonID string `json:"personId"`
}

// DeletePersonResponse is empty.
type DeletePersonResponse struct{}

// Card messages

// CreateCardRequest creates a card.
type CreateCardRequest struct {
	Name  string          `json:"name"`
	Type  models.CardType `json:"type"`
	Color string          `json:"color"`
}

// CreateCardResponse holds the stored card.
type CreateCardResponse struct {
	Card *models.Card `json:"card"`
}

// ListCardsRequest lists every card.
type ListCardsRequest struct{}

// ListCardsResponse holds every card, never nil.
type ListCardsResponse struct {
	Cards []*models.Card `json:"cards"`
}

// UpdateCardRequest applies the set fields to one card.
type UpdateCardRequest struct {
	CardID string `json:"cardId"`
	models.CardUpdate
}

// UpdateCardResponse holds the updated card.
type UpdateCardResponse struct {
	Card *models.Card `json:"card"`
}

// DeleteCardRequest removes one card. Its transactions keep their card ID.
type DeleteCardRequest struct {
	CardID string `json:"cardId"`
}

// DeleteCardResponse is empty.
type DeleteCardResponse struct{}

// GetMonthlyTableRequest selects one year of the card by month table.
// Empty filters match everything.
type GetMonthlyTableRequest struct {
	Year     int                     `json:"year"`
	CardID   string                  `json:"cardId,omitempty"`
	GroupID  string                  `json:"groupId,omitempty"`
	PersonID string                  `json:"personId,omitempty"`
	Status   calculator.StatusFilter `json:"status,omitempty"`
}

// GetMonthlyTableResponse holds the table with every total, whatever the status filter.
type GetMonthlyTableResponse struct {
	Table *calculator.MonthlyTable `json:"table"`

	// VisibleCells are the cells that pass the card and status filters.
	VisibleCells []calculator.CellRef `json:"visibleCells"`
}

// SetMonthlyCardStatusRequest marks one card month paid or pending. Year 0 is the current year.
type SetMonthlyCardStatusRequest struct {
	CardID string `json:"cardId"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	IsPaid bool   `json:"isPaid"`
}

// SetMonthlyCardStatusResponse holds the stored status.
type SetMonthlyCardStatusResponse struct {
	Status *models.MonthlyCardStatus `json:"status"`
}

// ToggleMonthlyCardStatusRequest flips one card month. Year 0 is the current year.
type ToggleMonthlyCardStatusRequest struct {
	CardID string `json:"cardId"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}

// ToggleMonthlyCardStatusResponse holds the status after the flip.
type ToggleMonthlyCardStatusResponse struct {
	Status *models.MonthlyCardStatus `json:"status"`
}

// Group messages

// CreateGroupRequest creates a group. Duplicate and empty member IDs are dropped.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	PersonIDs   []string `json:"personIds"`
}

// CreateGroupResponse holds the stored group.
type CreateGroupResponse struct {
	Group *models.Group `json:"group"`
}

// GetGroupRequest fetches one group.
type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

// GetGroupResponse holds the group with its members.
type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

// ListGroupsRequest lists every group. A set PersonID keeps only the groups
// that person belongs to.
type ListGroupsRequest struct {
	PersonID string `json:"personId,omitempty"`
}

// ListGroupsResponse holds the matching groups, never nil.
type ListGroupsResponse struct {
	Groups []*models.Group `json:"groups"`
}

// UpdateGroupRequest applies the set fields to one group.
type UpdateGroupRequest struct {
	GroupID string `json:"groupId"`
	models.GroupUpdate
}

// UpdateGroupResponse holds the updated group.
type UpdateGroupResponse struct {
	Group *models.Group `json:"group"`
}

// DeleteGroupRequest removes one group with its transactions and their payments.
type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

// DeleteGroupResponse is empty.
type DeleteGroupResponse struct{}

// GetGroupBalancesRequest reconciles the balances of one group.
type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

// Balance is a PersonBalance with its derived values spelled out.
type Balance struct {
	PersonID  string                  `json:"personId"`
	Owed      decimal.Decimal         `json:"owed"`
	Paid      decimal.Decimal         `json:"paid"`
	Remaining decimal.Decimal         `json:"remaining"`
	State     calculator.BalanceState `json:"state"`
	Progress  decimal.Decimal         `json:"progress"`
}

// GetGroupBalancesResponse holds one balance per member, in member order.
type GetGroupBalancesResponse struct {
	GroupID          string          `json:"groupId"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	TransactionCount int             `json:"transactionCount"`
	Balances         []Balance       `json:"balances"`
}

// GetGroupSpendingRequest asks for the last Months months with spending.
// Zero means calculator.DefaultSpendingMonths.
type GetGroupSpendingRequest struct {
	GroupID string `json:"groupId"`
	Months  int    `json:"months,omitempty"`
}

// GetGroupSpendingResponse holds the series oldest first.
type GetGroupSpendingResponse struct {
	GroupID string                  `json:"groupId"`
	Months  []calculator.MonthTotal `json:"months"`
}

// Transaction messages

// PreviewSplitRequest computes shares without storing anything.
type PreviewSplitRequest struct {
	TotalAmount  decimal.Decimal      `json:"totalAmount"`
	Participants []models.Participant `json:"participants"`
}

// PreviewSplitResponse holds the shares in participant order.
type PreviewSplitResponse struct {
	Splits []models.PersonSplit `json:"splits"`

	// Allocated is the sum of included shares. It exceeds the total when
	// fixed amounts alone are larger than it.
	Allocated decimal.Decimal `json:"allocated"`
}

// CreateTransactionRequest creates a transaction. No participants means every group member is included.
type CreateTransactionRequest struct {
	GroupID        string               `json:"groupId"`
	CardID         string               `json:"cardId,omitempty"`
	Description    string               `json:"description"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	Date           time.Time            `json:"date"`
	PaidByPersonID string               `json:"paidByPersonId"`
	Tags           []string             `json:"tags,omitempty"`
	Participants   []models.Participant `json:"participants"`
}

// CreateTransactionResponse holds the stored transaction with its computed splits.
type CreateTransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
}

// GetTransactionRequest fetches one transaction.
type GetTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

// GetTransactionResponse holds the transaction with its splits.
type GetTransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
}

// ListTransactionsRequest lists every transaction.
type ListTransactionsRequest struct{}

// ListTransactionsResponse holds every transaction, oldest first.
type ListTransactionsResponse struct {
	Transactions []*models.Transaction `json:"transactions"`
}

// ListTransactionsByGroupRequest lists the transactions of one group.
type ListTransactionsByGroupRequest struct {
	GroupID string `json:"groupId"`
}

// ListTransactionsByGroupResponse holds the group's transactions, newest first.
type ListTransactionsByGroupResponse struct {
	Transactions []*models.Transaction `json:"transactions"`
}

// UpdateTransactionRequest applies the set fields to one transaction.
type UpdateTransactionRequest struct {
	TransactionID string `json:"transactionId"`
	models.TransactionUpdate
}

// UpdateTransactionResponse holds the updated transaction.
type UpdateTransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
}

// DeleteTransactionRequest removes one transaction and its payments.
type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

// DeleteTransactionResponse is empty.
type DeleteTransactionResponse struct{}

// AddPaymentRequest records a payment against a transaction.
type AddPaymentRequest struct {
	TransactionID string          `json:"transactionId"`
	PersonID      string          `json:"personId"`
	Amount        decimal.Decimal `json:"amount"`

	// PaidAt defaults to now.
	PaidAt *time.Time `json:"paidAt,omitempty"`
}

// AddPaymentResponse holds the stored payment.
type AddPaymentResponse struct {
	Payment *models.Payment `json:"payment"`
}

// ListPaymentsByTransactionRequest lists the payments of one transaction.
type ListPaymentsByTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

// ListPaymentsByTransactionResponse holds the payments, oldest first.
type ListPaymentsByTransactionResponse struct {
	Payments []*models.Payment `json:"payments"`
}

// DeletePaymentRequest removes one payment.
type DeletePaymentRequest struct {
	PaymentID string `json:"paymentId"`
}

// DeletePaymentResponse is empty.
type DeletePaymentResponse struct{}

// GetTransactionSettlementRequest breaks one transaction's payments down per person.
type GetTransactionSettlementRequest struct {
	TransactionID string `json:"transactionId"`
}

// GetTransactionSettlementResponse holds the settlement.
type GetTransactionSettlementResponse struct {
	Settlement calculator.TransactionSettlement `json:"settlement"`
}
