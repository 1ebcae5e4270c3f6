package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrZeroTotal is returned when a split is rescaled from a zero total.
var ErrZeroTotal = errors.New("cannot rescale splits of a zero total")

// RescaleSplits scales every split by newTotal/oldTotal, keeping each
// person's proportion of the transaction. Fixed amounts scale the same way
// and stay absent when they were absent. The last included split takes the
// division residual, so a split that added up to oldTotal adds up to newTotal
// exactly. This does not re-run CalculateSplit.
func RescaleSplits(splits []models.PersonSplit, oldTotal, newTotal decimal.Decimal) ([]models.PersonSplit, error) {
	if oldTotal.IsZero() {
		return nil, ErrZeroTotal
	}

	scale := func(v decimal.Decimal) decimal.Decimal {
		return v.Mul(newTotal).Div(oldTotal)
	}

	last := -1
	out := make([]models.PersonSplit, len(splits))
	for i, s := range splits {
		out[i] = models.PersonSplit{
			PersonID:         s.PersonID,
			IsIncluded:       s.IsIncluded,
			CalculatedAmount: scale(s.CalculatedAmount),
		}
		if s.FixedAmount != nil {
			fixed := scale(*s.FixedAmount)
			out[i].FixedAmount = &fixed
		}
		if s.IsIncluded {
			last = i
		}
	}

	if last >= 0 {
		residual := scale(SplitSum(splits)).Sub(SplitSum(out))
		out[last].CalculatedAmount = out[last].CalculatedAmount.Add(residual)
	}
	return out, nil
}
