package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// TransactionService implements the Connect TransactionService: split
// previews, transactions, and the payments recorded against them.
type TransactionService struct {
	store storage.Store
}

// NewTransactionService creates a new TransactionService with the given storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

func (s *TransactionService) register(mux *http.ServeMux, opts []connect.HandlerOption) {
	handle(mux, TransactionServicePreviewSplitProcedure, s.PreviewSplit, opts)
	handle(mux, TransactionServiceCreateTransactionProcedure, s.CreateTransaction, opts)
	handle(mux, TransactionServiceGetTransactionProcedure, s.GetTransaction, opts)
	handle(mux, TransactionServiceListTransactionsProcedure, s.ListTransactions, opts)
	handle(mux, TransactionServiceListTransactionsByGroupProcedure, s.ListTransactionsByGroup, opts)
	handle(mux, TransactionServiceUpdateTransactionProcedure, s.UpdateTransaction, opts)
	handle(mux, TransactionServiceDeleteTransactionProcedure, s.DeleteTransaction, opts)
	handle(mux, TransactionServiceAddPaymentProcedure, s.AddPayment, opts)
	handle(mux, TransactionServiceListPaymentsByTransactionProcedure, s.ListPaymentsByTransaction, opts)
	handle(mux, TransactionServiceDeletePaymentProcedure, s.DeletePayment, opts)
	handle(mux, TransactionServiceGetTransactionSettlementProcedure, s.GetTransactionSettlement, opts)
}

// PreviewSplit calculates splits without storing anything.
func (s *TransactionService) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	slog.Info("PreviewSplit request received",
		"total", req.Msg.TotalAmount.String(),
		"participants", len(req.Msg.Participants),
	)

	if req.Msg.TotalAmount.IsNegative() {
		return nil, fail("PreviewSplit", &models.ValidationError{Field: "totalAmount", Reason: "must not be negative"})
	}
	if err := models.ValidateParticipants(req.Msg.Participants); err != nil {
		return nil, fail("PreviewSplit", err)
	}

	splits := calculator.CalculateSplit(req.Msg.TotalAmount, req.Msg.Participants)

	return connect.NewResponse(&PreviewSplitResponse{
		Splits:    splits,
		Allocated: calculator.SplitSum(splits),
	}), nil
}

// CreateTransaction calculates the splits of a new expense and stores it.
// Without participants every group member takes an equal share.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error) {
	slog.Info("CreateTransaction request received",
		"group_id", req.Msg.GroupID,
		"card_id", req.Msg.CardID,
		"total", req.Msg.TotalAmount.String(),
		"participants", len(req.Msg.Participants),
	)

	if err := models.ValidateParticipants(req.Msg.Participants); err != nil {
		return nil, fail("CreateTransaction", err)
	}

	tx := &models.Transaction{
		GroupID:        req.Msg.GroupID,
		CardID:         req.Msg.CardID,
		Description:    strings.TrimSpace(req.Msg.Description),
		TotalAmount:    req.Msg.TotalAmount,
		Date:           req.Msg.Date,
		PaidByPersonID: req.Msg.PaidByPersonID,
		Tags:           models.CleanTags(req.Msg.Tags),
	}
	if err := tx.Validate(); err != nil {
		return nil, fail("CreateTransaction", err)
	}

	group, err := s.store.GetGroup(ctx, tx.GroupID)
	if err != nil {
		return nil, fail("CreateTransaction", err, "group_id", tx.GroupID)
	}

	participants := req.Msg.Participants
	if len(participants) == 0 {
		participants = make([]models.Participant, len(group.PersonIDs))
		for i, id := range group.PersonIDs {
			participants[i] = models.Participant{PersonID: id, IsIncluded: true}
		}
	}
	tx.Splits = calculator.CalculateSplit(tx.TotalAmount, participants)

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fail("CreateTransaction", err, "group_id", tx.GroupID)
	}

	slog.Info("Transaction created",
		"transaction_id", tx.ID,
		"group_id", tx.GroupID,
		"splits", len(tx.Splits),
	)

	return connect.NewResponse(&CreateTransactionResponse{Transaction: tx}), nil
}

// GetTransaction retrieves a transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, req *connect.Request[GetTransactionRequest]) (*connect.Response[GetTransactionResponse], error) {
	slog.Info("GetTransaction request received", "transaction_id", req.Msg.TransactionID)

	tx, err := s.store.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, fail("GetTransaction", err, "transaction_id", req.Msg.TransactionID)
	}

	return connect.NewResponse(&GetTransactionResponse{Transaction: tx}), nil
}

// ListTransactions retrieves every transaction ordered by date.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fail("ListTransactions", err)
	}

	slog.Info("ListTransactions successful", "count", len(txs))

	return connect.NewResponse(&ListTransactionsResponse{Transactions: nonNil(txs)}), nil
}

// ListTransactionsByGroup retrieves the transactions of one group, newest first.
func (s *TransactionService) ListTransactionsByGroup(ctx context.Context, req *connect.Request[ListTransactionsByGroupRequest]) (*connect.Response[ListTransactionsByGroupResponse], error) {
	txs, err := s.store.ListTransactionsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("ListTransactionsByGroup", err, "group_id", req.Msg.GroupID)
	}

	slog.Info("ListTransactionsByGroup successful", "group_id", req.Msg.GroupID, "count", len(txs))

	return connect.NewResponse(&ListTransactionsByGroupResponse{Transactions: nonNil(txs)}), nil
}

// UpdateTransaction applies the set fields of the request.
//
// New participants recompute the splits on the resulting total. A new total
// alone rescales the existing splits so every share keeps its proportion.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[UpdateTransactionRequest]) (*connect.Response[UpdateTransactionResponse], error) {
	slog.Info("UpdateTransaction request received", "transaction_id", req.Msg.TransactionID)

	update := req.Msg.TransactionUpdate
	if update.Participants != nil {
		if err := models.ValidateParticipants(*update.Participants); err != nil {
			return nil, fail("UpdateTransaction", err, "transaction_id", req.Msg.TransactionID)
		}
	}

	tx, err := s.store.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, fail("UpdateTransaction", err, "transaction_id", req.Msg.TransactionID)
	}

	oldTotal := tx.TotalAmount
	update.Apply(tx)
	if update.TotalAmount != nil {
		tx.TotalAmount = *update.TotalAmount
	}

	switch {
	case update.Participants != nil:
		tx.Splits = calculator.CalculateSplit(tx.TotalAmount, *update.Participants)
	case !tx.TotalAmount.Equal(oldTotal):
		if !tx.TotalAmount.IsPositive() {
			return nil, fail("UpdateTransaction", &models.ValidationError{Field: "totalAmount", Reason: "must be greater than zero"},
				"transaction_id", tx.ID)
		}
		splits, err := calculator.RescaleSplits(tx.Splits, oldTotal, tx.TotalAmount)
		if err != nil {
			return nil, fail("UpdateTransaction", err, "transaction_id", tx.ID)
		}
		tx.Splits = splits
	}

	if err := tx.Validate(); err != nil {
		return nil, fail("UpdateTransaction", err, "transaction_id", tx.ID)
	}

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, fail("UpdateTransaction", err, "transaction_id", tx.ID)
	}

	slog.Info("Transaction updated",
		"transaction_id", tx.ID,
		"old_total", oldTotal.String(),
		"new_total", tx.TotalAmount.String(),
	)

	return connect.NewResponse(&UpdateTransactionResponse{Transaction: tx}), nil
}

// DeleteTransaction removes a transaction and every payment against it.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[DeleteTransactionRequest]) (*connect.Response[DeleteTransactionResponse], error) {
	slog.Info("DeleteTransaction request received", "transaction_id", req.Msg.TransactionID)

	if err := s.store.DeleteTransaction(ctx, req.Msg.TransactionID); err != nil {
		return nil, fail("DeleteTransaction", err, "transaction_id", req.Msg.TransactionID)
	}

	slog.Info("Transaction deleted", "transaction_id", req.Msg.TransactionID)

	return connect.NewResponse(&DeleteTransactionResponse{}), nil
}

// AddPayment records a payment against an existing transaction. Payments
// are not capped at what the person owes.
func (s *TransactionService) AddPayment(ctx context.Context, req *connect.Request[AddPaymentRequest]) (*connect.Response[AddPaymentResponse], error) {
	slog.Info("AddPayment request received",
		"transaction_id", req.Msg.TransactionID,
		"person_id", req.Msg.PersonID,
		"amount", req.Msg.Amount.String(),
	)

	payment := &models.Payment{
		TransactionID: req.Msg.TransactionID,
		PersonID:      req.Msg.PersonID,
		Amount:        req.Msg.Amount,
	}
	if req.Msg.PaidAt != nil {
		payment.PaidAt = *req.Msg.PaidAt
	}
	if err := payment.Validate(); err != nil {
		return nil, fail("AddPayment", err)
	}

	if _, err := s.store.GetTransaction(ctx, payment.TransactionID); err != nil {
		return nil, fail("AddPayment", err, "transaction_id", payment.TransactionID)
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fail("AddPayment", err, "transaction_id", payment.TransactionID)
	}

	slog.Info("Payment recorded", "payment_id", payment.ID, "transaction_id", payment.TransactionID)

	return connect.NewResponse(&AddPaymentResponse{Payment: payment}), nil
}

// ListPaymentsByTransaction retrieves the payments against one transaction.
func (s *TransactionService) ListPaymentsByTransaction(ctx context.Context, req *connect.Request[ListPaymentsByTransactionRequest]) (*connect.Response[ListPaymentsByTransactionResponse], error) {
	payments, err := s.store.ListPaymentsByTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, fail("ListPaymentsByTransaction", err, "transaction_id", req.Msg.TransactionID)
	}

	slog.Info("ListPaymentsByTransaction successful", "transaction_id", req.Msg.TransactionID, "count", len(payments))

	return connect.NewResponse(&ListPaymentsByTransactionResponse{Payments: nonNil(payments)}), nil
}

// DeletePayment removes a payment.
func (s *TransactionService) DeletePayment(ctx context.Context, req *connect.Request[DeletePaymentRequest]) (*connect.Response[DeletePaymentResponse], error) {
	slog.Info("DeletePayment request received", "payment_id", req.Msg.PaymentID)

	if err := s.store.DeletePayment(ctx, req.Msg.PaymentID); err != nil {
		return nil, fail("DeletePayment", err, "payment_id", req.Msg.PaymentID)
	}

	return connect.NewResponse(&DeletePaymentResponse{}), nil
}

// GetTransactionSettlement breaks one transaction's payments down per person.
func (s *TransactionService) GetTransactionSettlement(ctx context.Context, req *connect.Request[GetTransactionSettlementRequest]) (*connect.Response[GetTransactionSettlementResponse], error) {
	slog.Info("GetTransactionSettlement request received", "transaction_id", req.Msg.TransactionID)

	tx, err := s.store.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, fail("GetTransactionSettlement", err, "transaction_id", req.Msg.TransactionID)
	}

	payments, err := s.store.ListPaymentsByTransaction(ctx, tx.ID)
	if err != nil {
		return nil, fail("GetTransactionSettlement", err, "transaction_id", tx.ID)
	}

	settlement := calculator.SettleTransaction(tx, payments)

	slog.Info("GetTransactionSettlement successful",
		"transaction_id", tx.ID,
		"is_paid_up", settlement.IsPaidUp,
		"outstanding", settlement.Outstanding.String(),
	)

	return connect.NewResponse(&GetTransactionSettlementResponse{Settlement: settlement}), nil
}
