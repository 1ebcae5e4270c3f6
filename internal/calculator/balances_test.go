package calculator

import (
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func split(person string, included bool, amount string) models.PersonSplit {
	return models.PersonSplit{PersonID: person, IsIncluded: included, CalculatedAmount: dec(amount)}
}

func payment(txID, person, amount string) *models.Payment {
	return &models.Payment{TransactionID: txID, PersonID: person, Amount: dec(amount)}
}

func balanceOf(t *testing.T, balances []PersonBalance, person string) PersonBalance {
	t.Helper()
	for _, b := range balances {
		if b.PersonID == person {
			return b
		}
	}
	t.Fatalf("no balance for %s", person)
	return PersonBalance{}
}

func TestReconcileBalances(t *testing.T) {
	transactions := []*models.Transaction{
		{ID: "t1", TotalAmount: dec("120"), Splits: []models.PersonSplit{
			split("P", true, "60"), split("Q", true, "60"), split("R", false, "0"),
		}},
		{ID: "t2", TotalAmount: dec("80"), Splits: []models.PersonSplit{
			split("P", true, "40"), split("Q", true, "40"),
		}},
	}

	t.Run("partially paid", func(t *testing.T) {
		payments := []*models.Payment{payment("t1", "P", "25"), payment("t2", "P", "15")}
		balances := ReconcileBalances(transactions, payments, []string{"P", "Q", "R"})

		p := balanceOf(t, balances, "P")
		if !p.Owed.Equal(dec("100")) {
			t.Errorf("P owed = %s, want 100", p.Owed)
		}
		if !p.Paid.Equal(dec("40")) {
			t.Errorf("P paid = %s, want 40", p.Paid)
		}
		if !p.Remaining().Equal(dec("60")) {
			t.Errorf("P remaining = %s, want 60", p.Remaining())
		}
		if p.IsPaidUp() {
			t.Error("P should not be paid up")
		}
		if p.State() != Owing {
			t.Errorf("P state = %s, want %s", p.State(), Owing)
		}
		if !p.Progress().Equal(dec("40")) {
			t.Errorf("P progress = %s, want 40", p.Progress())
		}
	})

	t.Run("paid up", func(t *testing.T) {
		payments := []*models.Payment{payment("t1", "P", "60"), payment("t2", "P", "50")}
		balances := ReconcileBalances(transactions, payments, nil)

		p := balanceOf(t, balances, "P")
		if !p.IsPaidUp() {
			t.Error("P should be paid up")
		}
		if !p.Remaining().IsZero() {
			t.Errorf("P remaining = %s, want 0 after overpayment", p.Remaining())
		}
		if p.State() != PaidUp {
			t.Errorf("P state = %s, want %s", p.State(), PaidUp)
		}
	})

	t.Run("nothing due", func(t *testing.T) {
		balances := ReconcileBalances(transactions, nil, []string{"P", "Q", "R"})
		r := balanceOf(t, balances, "R")
		if !r.Owed.IsZero() {
			t.Errorf("R owed = %s, excluded splits must not count", r.Owed)
		}
		if r.IsPaidUp() {
			t.Error("R owes nothing and must not be paid up")
		}
		if r.State() != NothingDue {
			t.Errorf("R state = %s, want %s", r.State(), NothingDue)
		}
		if !r.Progress().Equal(dec("100")) {
			t.Errorf("R progress = %s, want 100", r.Progress())
		}
	})

	t.Run("order follows members then first appearance", func(t *testing.T) {
		payments := []*models.Payment{payment("t1", "Z", "5")}
		balances := ReconcileBalances(transactions, payments, []string{"R", "Q"})
		want := []string{"R", "Q", "P", "Z"}
		if len(balances) != len(want) {
			t.Fatalf("got %d balances, want %d", len(balances), len(want))
		}
		for i, id := range want {
			if balances[i].PersonID != id {
				t.Errorf("balance %d = %s, want %s", i, balances[i].PersonID, id)
			}
		}
	})
}

func TestTransactionIsPaidUp(t *testing.T) {
	tx := &models.Transaction{ID: "t1", TotalAmount: dec("100"), Splits: []models.PersonSplit{
		split("A", true, "50"), split("B", true, "50"),
	}}

	tests := []struct {
		name     string
		payments []*models.Payment
		want     bool
	}{
		{"no payments", nil, false},
		{"short", []*models.Payment{payment("t1", "A", "50"), payment("t1", "B", "49.99")}, false},
		{"exact", []*models.Payment{payment("t1", "A", "50"), payment("t1", "B", "50")}, true},
		// Attribution is ignored: one person covering everything counts.
		{"single payer", []*models.Payment{payment("t1", "A", "100")}, true},
		{"other transaction ignored", []*models.Payment{payment("t2", "A", "100")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransactionIsPaidUp(tx, tt.payments); got != tt.want {
				t.Errorf("TransactionIsPaidUp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettleTransaction(t *testing.T) {
	tx := &models.Transaction{ID: "t1", TotalAmount: dec("90"), Splits: []models.PersonSplit{
		split("A", true, "30"), split("B", true, "60"), split("C", false, "0"),
	}}
	payments := []*models.Payment{
		payment("t1", "A", "30"),
		payment("t1", "B", "20"),
		payment("t1", "C", "10"),
		payment("t9", "B", "40"),
	}

	s := SettleTransaction(tx, payments)
	if len(s.People) != 2 {
		t.Fatalf("got %d people, want 2 included", len(s.People))
	}
	if !s.People[0].IsPaidUp() {
		t.Error("A should be paid up")
	}
	if !s.People[1].Remaining().Equal(dec("40")) {
		t.Errorf("B remaining = %s, want 40", s.People[1].Remaining())
	}
	if !s.TotalPaid.Equal(dec("60")) {
		t.Errorf("total paid = %s, want 60", s.TotalPaid)
	}
	if !s.Outstanding.Equal(dec("30")) {
		t.Errorf("outstanding = %s, want 30", s.Outstanding)
	}
	if s.IsPaidUp {
		t.Error("transaction should not be paid up")
	}
}
