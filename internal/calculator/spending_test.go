package calculator

import (
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

func TestSpendingByMonth(t *testing.T) {
	at := func(year int, month time.Month, day int, amount string) *models.Transaction {
		return &models.Transaction{Date: time.Date(year, month, day, 12, 0, 0, 0, time.UTC), TotalAmount: dec(amount)}
	}
	transactions := []*models.Transaction{
		at(2024, time.March, 3, "10"),
		at(2023, time.December, 30, "5"),
		at(2024, time.March, 20, "15.5"),
		at(2024, time.January, 1, "7"),
		at(2024, time.May, 9, "40"),
	}

	tests := []struct {
		name string
		n    int
		want []MonthTotal
	}{
		{
			name: "all months oldest first",
			n:    0,
			want: []MonthTotal{
				{Year: 2023, Month: 11, Total: dec("5")},
				{Year: 2024, Month: 0, Total: dec("7")},
				{Year: 2024, Month: 2, Total: dec("25.5")},
				{Year: 2024, Month: 4, Total: dec("40")},
			},
		},
		{
			name: "last two",
			n:    2,
			want: []MonthTotal{
				{Year: 2024, Month: 2, Total: dec("25.5")},
				{Year: 2024, Month: 4, Total: dec("40")},
			},
		},
		{
			name: "n larger than series",
			n:    DefaultSpendingMonths,
			want: []MonthTotal{
				{Year: 2023, Month: 11, Total: dec("5")},
				{Year: 2024, Month: 0, Total: dec("7")},
				{Year: 2024, Month: 2, Total: dec("25.5")},
				{Year: 2024, Month: 4, Total: dec("40")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpendingByMonth(transactions, nil, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d months, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				g := got[i]
				if g.Year != w.Year || g.Month != w.Month || !g.Total.Equal(w.Total) {
					t.Errorf("month %d = %d-%d %s, want %d-%d %s", i, g.Year, g.Month, g.Total, w.Year, w.Month, w.Total)
				}
			}
		})
	}
}

func TestSpendingByMonth_Location(t *testing.T) {
	// 02:00 UTC on Feb 1 is still January five hours west.
	loc := time.FixedZone("UTC-5", -5*60*60)
	tx := &models.Transaction{Date: time.Date(2024, time.February, 1, 2, 0, 0, 0, time.UTC), TotalAmount: dec("12")}

	got := SpendingByMonth([]*models.Transaction{tx}, loc, 0)
	if len(got) != 1 || got[0].Year != 2024 || got[0].Month != 0 {
		t.Errorf("got %+v, want January 2024", got)
	}

	if got := SpendingByMonth(nil, nil, DefaultSpendingMonths); len(got) != 0 {
		t.Errorf("empty input gave %+v", got)
	}
}
