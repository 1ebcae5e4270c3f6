package service

import (
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

var txDate = time.Date(2024, time.February, 14, 19, 30, 0, 0, time.UTC)

func setupGroup(t *testing.T, srv *testServer, members ...string) *models.Group {
	t.Helper()
	return mustCall[CreateGroupResponse](t, srv, GroupServiceCreateGroupProcedure, &CreateGroupRequest{
		Name: "Group", PersonIDs: members,
	}).Group
}

func newTransactionRequest(groupID, total string, participants ...models.Participant) *CreateTransactionRequest {
	return &CreateTransactionRequest{
		GroupID:        groupID,
		Description:    "Dinner",
		TotalAmount:    dec(total),
		Date:           txDate,
		PaidByPersonID: "alice",
		Tags:           []string{" food ", ""},
		Participants:   participants,
	}
}

func TestPreviewSplit(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name         string
		total        string
		participants []models.Participant
		want         []string
		allocated    string
	}{
		{
			name:  "fixed plus equal share",
			total: "100",
			participants: []models.Participant{
				{PersonID: "alice", IsIncluded: true, FixedAmount: decPtr("20")},
				{PersonID: "bob", IsIncluded: true},
				{PersonID: "carol", IsIncluded: false},
			},
			want:      []string{"60", "40", "0"},
			allocated: "100",
		},
		{
			name:  "fixed amounts over the total",
			total: "100",
			participants: []models.Participant{
				{PersonID: "alice", IsIncluded: true, FixedAmount: decPtr("50")},
				{PersonID: "bob", IsIncluded: true, FixedAmount: decPtr("60")},
			},
			want:      []string{"50", "60"},
			allocated: "110",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustCall[PreviewSplitResponse](t, srv, TransactionServicePreviewSplitProcedure, &PreviewSplitRequest{
				TotalAmount: dec(tt.total), Participants: tt.participants,
			})
			require.Len(t, res.Splits, len(tt.want))
			for i, want := range tt.want {
				assert.True(t, res.Splits[i].CalculatedAmount.Equal(dec(want)), "split %d: %s", i, res.Splits[i].CalculatedAmount)
			}
			assert.True(t, res.Allocated.Equal(dec(tt.allocated)))
		})
	}

	t.Run("negative fixed amount", func(t *testing.T) {
		_, err := call[PreviewSplitResponse](t, srv, TransactionServicePreviewSplitProcedure, &PreviewSplitRequest{
			TotalAmount:  dec("10"),
			Participants: []models.Participant{{PersonID: "alice", IsIncluded: true, FixedAmount: decPtr("-1")}},
		})
		requireCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestCreateTransaction(t *testing.T) {
	srv := setupTestServer(t)
	group := setupGroup(t, srv, "alice", "bob")

	t.Run("defaults to every member", func(t *testing.T) {
		tx := mustCall[CreateTransactionResponse](t, srv, TransactionServiceCreateTransactionProcedure, newTransactionRequest(group.ID, "50")).Transaction
		require.Len(t, tx.Splits, 2)
		assert.Equal(t, "alice", tx.Splits[0].PersonID)
		assert.True(t, tx.Splits[1].CalculatedAmount.Equal(dec("25")))
		assert.Equal(t, []string{"food"}, tx.Tags)

		got := mustCall[GetTransactionResponse](t, srv, TransactionServiceGetTransactionProcedure, &GetTransactionRequest{TransactionID: tx.ID}).Transaction
		assert.Equal(t, "Dinner", got.Description)
		assert.True(t, got.Date.Equal(txDate))
		assert.Len(t, got.Splits, 2)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(r *CreateTransactionRequest)
		}{
			{name: "zero total", mutate: func(r *CreateTransactionRequest) { r.TotalAmount = dec("0") }},
			{name: "empty description", mutate: func(r *CreateTransactionRequest) { r.Description = " " }},
			{name: "missing payer", mutate: func(r *CreateTransactionRequest) { r.PaidByPersonID = "" }},
			{name: "missing date", mutate: func(r *CreateTransactionRequest) { r.Date = time.Time{} }},
			{name: "empty participant", mutate: func(r *CreateTransactionRequest) {
				r.Participants = []models.Participant{{IsIncluded: true}}
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := newTransactionRequest(group.ID, "10")
				tt.mutate(req)
				_, err := call[CreateTransactionResponse](t, srv, TransactionServiceCreateTransactionProcedure, req)
				requireCode(t, err, connect.CodeInvalidArgument)
			})
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := call[CreateTransactionResponse](t, srv, TransactionServiceCreateTransactionProcedure, newTransactionRequest("missing", "10"))
		requireCode(t, err, connect.CodeNotFound)
	})

	list := mustCall[ListTransactionsResponse](t, srv, TransactionServiceListTransactionsProcedure, &ListTransactionsRequest{})
	assert.Len(t, list.Transactions, 1, "failed creates store nothing")
}

func TestUpdateTransaction(t *testing.T) {
	srv := setupTestServer(t)
	group := setupGroup(t, srv, "alice", "bob")

	create := func() *models.Transaction {
		return mustCall[CreateTransactionResponse](t, srv, TransactionServiceCreateTransactionProcedure, newTransactionRequest(group.ID, "100",
			models.Participant{PersonID: "alice", IsIncluded: true, FixedAmount: decPtr("30")},
			models.Participant{PersonID: "bob", IsIncluded: true, FixedAmount: decPtr("70")},
		)).Transaction
	}

	t.Run("new total rescales splits", func(t *testing.T) {
		tx := create()
		req := &UpdateTransactionRequest{TransactionID: tx.ID}
		req.TotalAmount = decPtr("50")
		updated := mustCall[UpdateTransactionResponse](t, srv, TransactionServiceUpdateTransactionProcedure, req).Transaction

		assert.True(t, updated.TotalAmount.Equal(dec("50")))
		assert.True(t, updated.Splits[0].CalculatedAmount.Equal(dec("15")))
		assert.True(t, updated.Splits[1].CalculatedAmount.Equal(dec("35")))
		require.NotNil(t, updated.Splits[0].FixedAmount)
		assert.True(t, updated.Splits[0].FixedAmount.Equal(dec("15")))

		stored := mustCall[GetTransactionResponse](t, srv, TransactionServiceGetTransactionProcedure, &GetTransactionRequest{TransactionID: tx.ID}).Transaction
		assert.True(t, stored.Splits[1].CalculatedAmount.Equal(dec("35")))
	})

	t.Run("participants recompute splits", func(t *testing.T) {
		tx := create()
		req := &UpdateTransactionRequest{TransactionID: tx.ID}
		req.TotalAmount = decPtr("60")
		req.Participants = ptr([]models.Participant{
			{PersonID: "alice", IsIncluded: true},
			{PersonID: "bob", IsIncluded: true},
			{PersonID: "carol", IsIncluded: true},
		})
		updated := mustCall[UpdateTransactionResponse](t, srv, TransactionServiceUpdateTransactionProcedure, req).Transaction

		require.Len(t, updated.Splits, 3)
		for _, s := range updated.Splits {
			assert.True(t, s.CalculatedAmount.Equal(dec("20")))
			assert.Nil(t, s.FixedAmount)
		}
	})

	t.Run("plain fields only keep splits", func(t *testing.T) {
		tx := create()
		req := &UpdateTransactionRequest{TransactionID: tx.ID}
		req.Description = ptr("Lunch")
		req.CardID = ptr("visa")
		updated := mustCall[UpdateTransactionResponse](t, srv, TransactionServiceUpdateTransactionProcedure, req).Transaction

		assert.Equal(t, "Lunch", updated.Description)
		assert.Equal(t, "visa", updated.CardID)
		assert.True(t, updated.Splits[0].CalculatedAmount.Equal(dec("30")))
		assert.True(t, updated.CreatedAt.Equal(tx.CreatedAt))
	})

	t.Run("zero total", func(t *testing.T) {
		tx := create()
		req := &UpdateTransactionRequest{TransactionID: tx.ID}
		req.TotalAmount = decPtr("0")
		_, err := call[UpdateTransactionResponse](t, srv, TransactionServiceUpdateTransactionProcedure, req)
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("not found", func(t *testing.T) {
		req := &UpdateTransactionRequest{TransactionID: "missing"}
		req.Description = ptr("x")
		_, err := call[UpdateTransactionResponse](t, srv, TransactionServiceUpdateTransactionProcedure, req)
		requireCode(t, err, connect.CodeNotFound)
	})
}

func TestPaymentsAndSettlement(t *testing.T) {
	srv := setupTestServer(t)
	group := setupGroup(t, srv, "alice", "bob")
	tx := mustCall[CreateTransactionResponse](t, srv, TransactionServiceCreateTransactionProcedure, newTransactionRequest(group.ID, "80")).Transaction

	paidAt := time.Date(2024, time.February, 20, 8, 0, 0, 0, time.UTC)
	first := mustCall[AddPaymentResponse](t, srv, TransactionServiceAddPaymentProcedure, &AddPaymentRequest{
		TransactionID: tx.ID, PersonID: "bob", Amount: dec("25"), PaidAt: &paidAt,
	}).Payment
	assert.True(t, first.PaidAt.Equal(paidAt))

	settlement := mustCall[GetTransactionSettlementResponse](t, srv, TransactionServiceGetTransactionSettlementProcedure, &GetTransactionSettlementRequest{TransactionID: tx.ID}).Settlement
	assert.False(t, settlement.IsPaidUp)
	assert.True(t, settlement.Outstanding.Equal(dec("55")))
	require.Len(t, settlement.People, 2)
	assert.True(t, settlement.People[1].Paid.Equal(dec("25")))

	mustCall[AddPaymentResponse](t, srv, TransactionServiceAddPaymentProcedure, &AddPaymentRequest{
		TransactionID: tx.ID, PersonID: "alice", Amount: dec("60"),
	})
	settlement = mustCall[GetTransactionSettlementResponse](t, srv, TransactionServiceGetTransactionSettlementProcedure, &GetTransactionSettlementRequest{TransactionID: tx.ID}).Settlement
	assert.True(t, settlement.IsPaidUp, "overpayment still settles")
	assert.True(t, settlement.Outstanding.IsZero())
	assert.True(t, settlement.TotalPaid.Equal(dec("85")))

	payments := mustCall[ListPaymentsByTransactionResponse](t, srv, TransactionServiceListPaymentsByTransactionProcedure, &ListPaymentsByTransactionRequest{TransactionID: tx.ID}).Payments
	require.Len(t, payments, 2)

	mustCall[DeletePaymentResponse](t, srv, TransactionServiceDeletePaymentProcedure, &DeletePaymentRequest{PaymentID: first.ID})
	payments = mustCall[ListPaymentsByTransactionResponse](t, srv, TransactionServiceListPaymentsByTransactionProcedure, &ListPaymentsByTransactionRequest{TransactionID: tx.ID}).Payments
	assert.Len(t, payments, 1)

	t.Run("rejected payments", func(t *testing.T) {
		_, err := call[AddPaymentResponse](t, srv, TransactionServiceAddPaymentProcedure, &AddPaymentRequest{
			TransactionID: tx.ID, PersonID: "bob", Amount: dec("0"),
		})
		requireCode(t, err, connect.CodeInvalidArgument)

		_, err = call[AddPaymentResponse](t, srv, TransactionServiceAddPaymentProcedure, &AddPaymentRequest{
			TransactionID: "missing", PersonID: "bob", Amount: dec("1"),
		})
		requireCode(t, err, connect.CodeNotFound)
	})

	t.Run("delete transaction removes payments", func(t *testing.T) {
		mustCall[DeleteTransactionResponse](t, srv, TransactionServiceDeleteTransactionProcedure, &DeleteTransactionRequest{TransactionID: tx.ID})
		mustCall[DeleteTransactionResponse](t, srv, TransactionServiceDeleteTransactionProcedure, &DeleteTransactionRequest{TransactionID: tx.ID})

		_, err := call[GetTransactionResponse](t, srv, TransactionServiceGetTransactionProcedure, &GetTransactionRequest{TransactionID: tx.ID})
		requireCode(t, err, connect.CodeNotFound)

		payments := mustCall[ListPaymentsByTransactionResponse](t, srv, TransactionServiceListPaymentsByTransactionProcedure, &ListPaymentsByTransactionRequest{TransactionID: tx.ID}).Payments
		assert.Empty(t, payments)

		_, err = call[GetTransactionSettlementResponse](t, srv, TransactionServiceGetTransactionSettlementProcedure, &GetTransactionSettlementRequest{TransactionID: tx.ID})
		requireCode(t, err, connect.CodeNotFound)
	})
}

func TestSettlement_EqualThirds(t *testing.T) {
	srv := setupTestServer(t)
	group := setupGroup(t, srv, "alice", "bob", "carol")
	tx := mustCall[CreateTransactionResponse](t, srv, TransactionServiceCreateTransactionProcedure, newTransactionRequest(group.ID, "100")).Transaction

	sum := dec("0")
	for _, s := range tx.Splits {
		sum = sum.Add(s.CalculatedAmount)
		mustCall[AddPaymentResponse](t, srv, TransactionServiceAddPaymentProcedure, &AddPaymentRequest{
			TransactionID: tx.ID, PersonID: s.PersonID, Amount: s.CalculatedAmount,
		})
	}
	assert.True(t, sum.Equal(dec("100")), "shares add up to %s", sum)

	settlement := mustCall[GetTransactionSettlementResponse](t, srv, TransactionServiceGetTransactionSettlementProcedure, &GetTransactionSettlementRequest{TransactionID: tx.ID}).Settlement
	assert.True(t, settlement.IsPaidUp)
	assert.True(t, settlement.Outstanding.IsZero(), "outstanding %s", settlement.Outstanding)
	for _, p := range settlement.People {
		assert.True(t, p.IsPaidUp(), "%s owes %s", p.PersonID, p.Remaining())
	}
}
