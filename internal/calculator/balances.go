package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// BalanceState classifies a person's balance.
type BalanceState string

const (
	// NothingDue means the person owes nothing in scope.
	NothingDue BalanceState = "nothing_due"
	// Owing means some of what the person owes is unpaid.
	Owing BalanceState = "owing"
	// PaidUp means the person owes something and has paid all of it.
	PaidUp BalanceState = "paid_up"
)

// PersonBalance is what one person owes and has paid across a set of transactions.
type PersonBalance struct {
	PersonID string          `json:"personId"`
	Owed     decimal.Decimal `json:"owed"` // Sum of included split amounts
	Paid     decimal.Decimal `json:"paid"` // Sum of the person's payments
}

// Remaining is what is still unpaid, never negative.
func (b PersonBalance) Remaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, b.Owed.Sub(b.Paid))
}

// IsPaidUp reports whether the person owed something and paid all of it.
func (b PersonBalance) IsPaidUp() bool {
	return b.Remaining().IsZero() && b.Owed.IsPositive()
}

// State classifies the balance.
func (b PersonBalance) State() BalanceState {
	switch {
	case !b.Owed.IsPositive():
		return NothingDue
	case b.Remaining().IsZero():
		return PaidUp
	default:
		return Owing
	}
}

// Progress is paid as a percentage of owed. It is 100 when nothing is owed
// and may exceed 100 on overpayment.
func (b PersonBalance) Progress() decimal.Decimal {
	if !b.Owed.IsPositive() {
		return hundred
	}
	return b.Paid.Div(b.Owed).Mul(hundred)
}

// ReconcileBalances computes owed and paid per person.
//
// Owed adds up every included split of every transaction. Paid adds up every
// payment by the person, whichever transaction it targets. memberIDs are
// listed first, with zero balances when they have no activity; anyone else who
// shows up in a split or payment follows in order of first appearance.
func ReconcileBalances(transactions []*models.Transaction, payments []*models.Payment, memberIDs []string) []PersonBalance {
	index := make(map[string]int)
	var balances []PersonBalance

	entry := func(personID string) *PersonBalance {
		i, ok := index[personID]
		if !ok {
			i = len(balances)
			index[personID] = i
			balances = append(balances, PersonBalance{PersonID: personID, Owed: decimal.Zero, Paid: decimal.Zero})
		}
		return &balances[i]
	}

	for _, id := range memberIDs {
		entry(id)
	}

	for _, tx := range transactions {
		for _, split := range tx.Splits {
			if !split.IsIncluded {
				continue
			}
			b := entry(split.PersonID)
			b.Owed = b.Owed.Add(split.CalculatedAmount)
		}
	}

	for _, p := range payments {
		b := entry(p.PersonID)
		b.Paid = b.Paid.Add(p.Amount)
	}

	return balances
}

// TransactionIsPaidUp reports whether the payments recorded against tx add
// up to at least its total. Who paid is ignored.
func TransactionIsPaidUp(tx *models.Transaction, payments []*models.Payment) bool {
	return paidToward(tx.ID, payments).GreaterThanOrEqual(tx.TotalAmount)
}

func paidToward(transactionID string, payments []*models.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.TransactionID == transactionID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// TransactionSettlement is the payment state of a single transaction.
type TransactionSettlement struct {
	TransactionID string `json:"transactionId"`

	// People has one balance per included split, in split order. Payments by
	// people without an included split count toward TotalPaid only.
	People []PersonBalance `json:"people"`

	TotalPaid   decimal.Decimal `json:"totalPaid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	IsPaidUp    bool            `json:"isPaidUp"`
}

// SettleTransaction breaks the payments of one transaction down per person.
func SettleTransaction(tx *models.Transaction, payments []*models.Payment) TransactionSettlement {
	var own []*models.Payment
	for _, p := range payments {
		if p.TransactionID == tx.ID {
			own = append(own, p)
		}
	}

	var people []PersonBalance
	index := make(map[string]int)
	for _, split := range tx.Splits {
		if !split.IsIncluded {
			continue
		}
		index[split.PersonID] = len(people)
		people = append(people, PersonBalance{PersonID: split.PersonID, Owed: split.CalculatedAmount, Paid: decimal.Zero})
	}

	totalPaid := decimal.Zero
	for _, p := range own {
		totalPaid = totalPaid.Add(p.Amount)
		if i, ok := index[p.PersonID]; ok {
			people[i].Paid = people[i].Paid.Add(p.Amount)
		}
	}

	return TransactionSettlement{
		TransactionID: tx.ID,
		People:        people,
		TotalPaid:     totalPaid,
		Outstanding:   decimal.Max(decimal.Zero, tx.TotalAmount.Sub(totalPaid)),
		IsPaidUp:      totalPaid.GreaterThanOrEqual(tx.TotalAmount),
	}
}
