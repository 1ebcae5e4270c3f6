package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validTransaction() *Transaction {
	return &Transaction{
		GroupID:        "g1",
		Description:    "Dinner",
		TotalAmount:    decimal.NewFromInt(30),
		Date:           time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		PaidByPersonID: "alice",
		Splits: []PersonSplit{
			{PersonID: "alice", IsIncluded: true, CalculatedAmount: decimal.NewFromInt(15)},
			{PersonID: "bob", IsIncluded: true, FixedAmount: amount("5"), CalculatedAmount: decimal.NewFromInt(15)},
			{PersonID: "carol", IsIncluded: false, CalculatedAmount: decimal.Zero},
		},
	}
}

func TestValidationError(t *testing.T) {
	err := (&Person{Name: "  "}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "name must not be empty", err.Error())
}

func TestCardValidate(t *testing.T) {
	assert.NoError(t, (&Card{Name: "Visa", Type: CardCredit}).Validate())
	assert.ErrorIs(t, (&Card{Name: "Visa", Type: "wallet"}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Card{Name: "", Type: CardDebit}).Validate(), ErrValidation)
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(tx *Transaction)
		field  string
	}{
		{name: "valid", mutate: func(tx *Transaction) {}},
		{name: "no group", mutate: func(tx *Transaction) { tx.GroupID = "" }, field: "groupId"},
		{name: "blank description", mutate: func(tx *Transaction) { tx.Description = "  " }, field: "description"},
		{name: "zero total", mutate: func(tx *Transaction) { tx.TotalAmount = decimal.Zero }, field: "totalAmount"},
		{name: "no payer", mutate: func(tx *Transaction) { tx.PaidByPersonID = "" }, field: "paidByPersonId"},
		{name: "no date", mutate: func(tx *Transaction) { tx.Date = time.Time{} }, field: "date"},
		{name: "negative fixed", mutate: func(tx *Transaction) { tx.Splits[1].FixedAmount = amount("-1") }, field: "splits.fixedAmount"},
		{name: "excluded with share", mutate: func(tx *Transaction) {
			tx.Splits[2].CalculatedAmount = decimal.NewFromInt(1)
		}, field: "splits.calculatedAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(tx)

			err := tx.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestTransactionSplitLookups(t *testing.T) {
	tx := validTransaction()

	assert.True(t, tx.Includes("alice"))
	assert.False(t, tx.Includes("carol"), "excluded split")
	assert.False(t, tx.Includes("dave"), "no split")

	split, ok := tx.SplitFor("bob")
	require.True(t, ok)
	assert.True(t, split.FixedAmount.Equal(decimal.NewFromInt(5)))

	participants := tx.Participants()
	require.Len(t, participants, 3)
	assert.Equal(t, "carol", participants[2].PersonID)
	assert.False(t, participants[2].IsIncluded)
	assert.Same(t, tx.Splits[1].FixedAmount, participants[1].FixedAmount)
}

func TestTransactionUpdateApply(t *testing.T) {
	tx := validTransaction()
	date := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)

	TransactionUpdate{
		Description: ptr(" Lunch "),
		CardID:      ptr("visa"),
		Date:        &date,
		Tags:        ptr([]string{" a ", "", "b"}),
		TotalAmount: amount("99"),
	}.Apply(tx)

	assert.Equal(t, "Lunch", tx.Description)
	assert.Equal(t, "visa", tx.CardID)
	assert.Equal(t, date, tx.Date)
	assert.Equal(t, []string{"a", "b"}, tx.Tags)
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(30)), "total is left to the caller")

	TransactionUpdate{CardID: ptr("")}.Apply(tx)
	assert.Empty(t, tx.CardID)
}

func TestGroupUpdateApply(t *testing.T) {
	g := &Group{Name: "Flat", Color: "red", PersonIDs: []string{"a"}}

	GroupUpdate{Name: ptr(" Home "), PersonIDs: ptr([]string{"b", "b", "", "c"})}.Apply(g)

	assert.Equal(t, "Home", g.Name)
	assert.Equal(t, "red", g.Color)
	assert.Equal(t, []string{"b", "c"}, g.PersonIDs)
	assert.True(t, g.HasMember("c"))
	assert.False(t, g.HasMember("a"))
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, UniqueIDs([]string{"x", "y", "x", ""}))
	assert.Equal(t, []string{}, UniqueIDs(nil))
}

func TestPaymentValidate(t *testing.T) {
	valid := Payment{TransactionID: "t1", PersonID: "bob", Amount: decimal.NewFromInt(1)}
	assert.NoError(t, valid.Validate())

	for name, p := range map[string]Payment{
		"no transaction":  {PersonID: "bob", Amount: decimal.NewFromInt(1)},
		"no person":       {TransactionID: "t1", Amount: decimal.NewFromInt(1)},
		"zero amount":     {TransactionID: "t1", PersonID: "bob"},
		"negative amount": {TransactionID: "t1", PersonID: "bob", Amount: decimal.NewFromInt(-3)},
	} {
		assert.ErrorIs(t, p.Validate(), ErrValidation, name)
	}
}

func TestMonthlyCardStatus(t *testing.T) {
	assert.Equal(t, "card-2024-3", StatusID("card", 2024, 3))
	assert.Equal(t, "no-card-2023-0", StatusID(NoCardID, 2023, 0))

	assert.NoError(t, ValidateMonth(0))
	assert.NoError(t, ValidateMonth(11))
	assert.ErrorIs(t, ValidateMonth(12), ErrValidation)
	assert.ErrorIs(t, ValidateMonth(-1), ErrValidation)

	assert.NoError(t, ValidateYear(1))
	assert.ErrorIs(t, ValidateYear(0), ErrValidation)
	assert.ErrorIs(t, ValidateYear(-1), ErrValidation)

	assert.ErrorIs(t, (&MonthlyCardStatus{Year: 2024, Month: 1}).Validate(), ErrValidation, "missing card")
	assert.ErrorIs(t, (&MonthlyCardStatus{CardID: "a", Year: -1, Month: 3}).Validate(), ErrValidation, "negative year")
	assert.NoError(t, (&MonthlyCardStatus{CardID: "a-", Year: 1, Month: 3}).Validate())
}

func ptr[T any](v T) *T {
	return &v
}
