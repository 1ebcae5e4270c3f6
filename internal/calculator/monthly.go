package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// MonthsPerYear is the number of cells in a card row.
const MonthsPerYear = 12

// StatusFilter narrows which cells of a monthly table are displayed.
type StatusFilter string

const (
	StatusAll     StatusFilter = ""
	StatusPaid    StatusFilter = "paid"
	StatusPending StatusFilter = "pending"
)

// Valid reports whether f is a known filter.
func (f StatusFilter) Valid() bool {
	switch f {
	case StatusAll, StatusPaid, StatusPending:
		return true
	}
	return false
}

// MonthlyQuery selects the transactions of a monthly table.
// Empty IDs mean no filter on that field.
type MonthlyQuery struct {
	Year int

	// CardID may be models.NoCardID for transactions without a card.
	CardID   string
	GroupID  string
	PersonID string

	// Status hides cells from display. It never changes totals.
	Status StatusFilter

	// Location decides which calendar month a transaction falls in. Nil is UTC.
	Location *time.Location
}

// MonthCell is one card's spending in one month.
type MonthCell struct {
	Total        decimal.Decimal           `json:"total"`
	Transactions []*models.Transaction     `json:"transactions"`
	Status       *models.MonthlyCardStatus `json:"status,omitempty"`
	IsPaid       bool                      `json:"isPaid"`
}

// CardRow is one card's year.
type CardRow struct {
	CardID string                   `json:"cardId"`
	Months [MonthsPerYear]MonthCell `json:"months"`
	Total  decimal.Decimal          `json:"total"`
}

// HasData reports whether any month of the row has spending.
func (r *CardRow) HasData() bool {
	for _, c := range r.Months {
		if !c.Total.IsZero() {
			return true
		}
	}
	return false
}

// MonthlyTable is the card-by-month ledger of one year.
type MonthlyTable struct {
	Year        int                            `json:"year"`
	Rows        []*CardRow                     `json:"rows"`
	MonthTotals [MonthsPerYear]decimal.Decimal `json:"monthTotals"`
	GrandTotal  decimal.Decimal                `json:"grandTotal"`

	query MonthlyQuery
	index map[string]int
}

// CellRef points at one displayed cell.
type CellRef struct {
	CardID string `json:"cardId"`
	Month  int    `json:"month"`
}

// BuildMonthlyTable buckets transactions of q.Year by card and month.
//
// Every card gets a row, followed by the no-card row; a transaction charged
// to a card that is not in cards gets a row of its own at the end. Group,
// person and card filters decide which transactions are counted; the person
// filter only matches people with an included split. Status records are
// joined onto cells by card, year and month.
func BuildMonthlyTable(cards []*models.Card, transactions []*models.Transaction, statuses []*models.MonthlyCardStatus, q MonthlyQuery) *MonthlyTable {
	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}

	t := &MonthlyTable{
		Year:  q.Year,
		query: q,
		index: make(map[string]int),
	}
	for i := range t.MonthTotals {
		t.MonthTotals[i] = decimal.Zero
	}
	t.GrandTotal = decimal.Zero

	for _, c := range cards {
		t.row(c.ID)
	}
	t.row(models.NoCardID)

	for _, tx := range transactions {
		date := tx.Date.In(loc)
		if date.Year() != q.Year {
			continue
		}
		if q.GroupID != "" && tx.GroupID != q.GroupID {
			continue
		}
		if q.PersonID != "" && !tx.Includes(q.PersonID) {
			continue
		}
		cardID := tx.CardID
		if cardID == "" {
			cardID = models.NoCardID
		}
		if q.CardID != "" && cardID != q.CardID {
			continue
		}

		month := int(date.Month()) - 1
		cell := &t.row(cardID).Months[month]
		cell.Total = cell.Total.Add(tx.TotalAmount)
		cell.Transactions = append(cell.Transactions, tx)
	}

	for _, s := range statuses {
		if s.Year != q.Year || s.Month < 0 || s.Month >= MonthsPerYear {
			continue
		}
		i, ok := t.index[s.CardID]
		if !ok {
			continue
		}
		cell := &t.Rows[i].Months[s.Month]
		cell.Status = s
		cell.IsPaid = s.IsPaid
	}

	for _, r := range t.Rows {
		for m := range r.Months {
			r.Total = r.Total.Add(r.Months[m].Total)
			t.MonthTotals[m] = t.MonthTotals[m].Add(r.Months[m].Total)
		}
		t.GrandTotal = t.GrandTotal.Add(r.Total)
	}

	return t
}

// row returns the row of cardID, creating it when missing.
func (t *MonthlyTable) row(cardID string) *CardRow {
	if i, ok := t.index[cardID]; ok {
		return t.Rows[i]
	}
	r := &CardRow{CardID: cardID, Total: decimal.Zero}
	for m := range r.Months {
		r.Months[m].Total = decimal.Zero
	}
	t.index[cardID] = len(t.Rows)
	t.Rows = append(t.Rows, r)
	return r
}

// Row returns the row of cardID, or nil.
func (t *MonthlyTable) Row(cardID string) *CardRow {
	i, ok := t.index[cardID]
	if !ok {
		return nil
	}
	return t.Rows[i]
}

// Cell returns one cell, or nil when the card has no row or month is out of range.
func (t *MonthlyTable) Cell(cardID string, month int) *MonthCell {
	r := t.Row(cardID)
	if r == nil || month < 0 || month >= MonthsPerYear {
		return nil
	}
	return &r.Months[month]
}

// Visible reports whether a cell passes the card and status filters.
func (t *MonthlyTable) Visible(cardID string, month int) bool {
	cell := t.Cell(cardID, month)
	if cell == nil {
		return false
	}
	if t.query.CardID != "" && cardID != t.query.CardID {
		return false
	}
	switch t.query.Status {
	case StatusPaid:
		return cell.IsPaid
	case StatusPending:
		return !cell.IsPaid
	}
	return true
}

// VisibleCells lists displayed cells row by row.
func (t *MonthlyTable) VisibleCells() []CellRef {
	var refs []CellRef
	for _, r := range t.Rows {
		for m := 0; m < MonthsPerYear; m++ {
			if t.Visible(r.CardID, m) {
				refs = append(refs, CellRef{CardID: r.CardID, Month: m})
			}
		}
	}
	return refs
}

// NewMonthlyCardStatus builds the status record for a toggle. PaidAt is now
// when paid and nil otherwise.
func NewMonthlyCardStatus(cardID string, year, month int, isPaid bool, now time.Time) *models.MonthlyCardStatus {
	s := &models.MonthlyCardStatus{
		ID:     models.StatusID(cardID, year, month),
		CardID: cardID,
		Year:   year,
		Month:  month,
		IsPaid: isPaid,
	}
	if isPaid {
		paidAt := now
		s.PaidAt = &paidAt
	}
	return s
}
