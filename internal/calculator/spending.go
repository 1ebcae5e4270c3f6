package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// DefaultSpendingMonths is how many months a spending series keeps by default.
const DefaultSpendingMonths = 6

// MonthTotal is the spending of one calendar month. Month is 0..11.
type MonthTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// SpendingByMonth adds up transactions per calendar month in loc and returns
// the months that have transactions, oldest first. Only the last n months
// are kept; n <= 0 keeps all of them. A nil loc is UTC.
func SpendingByMonth(transactions []*models.Transaction, loc *time.Location, n int) []MonthTotal {
	if loc == nil {
		loc = time.UTC
	}

	type key struct{ year, month int }
	totals := make(map[key]decimal.Decimal)
	for _, tx := range transactions {
		date := tx.Date.In(loc)
		k := key{date.Year(), int(date.Month()) - 1}
		if sum, ok := totals[k]; ok {
			totals[k] = sum.Add(tx.TotalAmount)
		} else {
			totals[k] = tx.TotalAmount
		}
	}

	out := make([]MonthTotal, 0, len(totals))
	for k, total := range totals {
		out = append(out, MonthTotal{Year: k.year, Month: k.month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})

	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
