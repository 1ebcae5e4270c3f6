// Package calculator holds the pure arithmetic of the ledger: splitting a
// transaction, rescaling a split, reconciling balances, and aggregating
// transactions by card and month. Nothing here touches storage.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// CalculateSplit computes each participant's share of total.
//
// Included participants pay their fixed amount (if any) plus an equal share
// of what the fixed amounts leave over:
//
//	remaining   = max(0, total - sum(fixed of included))
//	equal_share = remaining / count(included)
//
// remaining / count is cut at the decimal division precision, so the last
// included participant also takes the residual and the shares add up to
// total exactly. Excluded participants get zero. When the fixed amounts
// exceed total the remainder is clamped to zero, so the shares add up to the
// fixed total and not to total. The output follows the input order.
func CalculateSplit(total decimal.Decimal, participants []models.Participant) []models.PersonSplit {
	fixedTotal := decimal.Zero
	included := 0
	for _, p := range participants {
		if !p.IsIncluded {
			continue
		}
		included++
		if p.FixedAmount != nil {
			fixedTotal = fixedTotal.Add(*p.FixedAmount)
		}
	}

	remaining := decimal.Max(decimal.Zero, total.Sub(fixedTotal))
	equalShare := decimal.Zero
	if included > 0 {
		equalShare = remaining.Div(decimal.NewFromInt(int64(included)))
	}

	last := -1
	splits := make([]models.PersonSplit, len(participants))
	for i, p := range participants {
		split := models.PersonSplit{
			PersonID:         p.PersonID,
			IsIncluded:       p.IsIncluded,
			FixedAmount:      normalizeFixed(p.FixedAmount),
			CalculatedAmount: decimal.Zero,
		}
		if p.IsIncluded {
			split.CalculatedAmount = equalShare
			if split.FixedAmount != nil {
				split.CalculatedAmount = split.CalculatedAmount.Add(*split.FixedAmount)
			}
			last = i
		}
		splits[i] = split
	}

	if last >= 0 {
		residual := remaining.Sub(equalShare.Mul(decimal.NewFromInt(int64(included))))
		splits[last].CalculatedAmount = splits[last].CalculatedAmount.Add(residual)
	}
	return splits
}

// SplitSum adds up the calculated amounts of included splits.
func SplitSum(splits []models.PersonSplit) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		if s.IsIncluded {
			sum = sum.Add(s.CalculatedAmount)
		}
	}
	return sum
}

// normalizeFixed drops zero fixed amounts, a blank form field and a zero mean the same.
func normalizeFixed(fixed *decimal.Decimal) *decimal.Decimal {
	if fixed == nil || fixed.IsZero() {
		return nil
	}
	v := *fixed
	return &v
}
