package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CardService implements the Connect CardService: card CRUD, the card by
// month table, and monthly paid statuses.
type CardService struct {
	store storage.Store
	loc   *time.Location
	now   func() time.Time
}

// NewCardService creates a new CardService. loc decides which calendar
// month a transaction falls in.
func NewCardService(store storage.Store, loc *time.Location, now func() time.Time) *CardService {
	return &CardService{store: store, loc: loc, now: now}
}

func (s *CardService) register(mux *http.ServeMux, opts []connect.HandlerOption) {
	handle(mux, CardServiceCreateCardProcedure, s.CreateCard, opts)
	handle(mux, CardServiceListCardsProcedure, s.ListCards, opts)
	handle(mux, CardServiceUpdateCardProcedure, s.UpdateCard, opts)
	handle(mux, CardServiceDeleteCardProcedure, s.DeleteCard, opts)
	handle(mux, CardServiceGetMonthlyTableProcedure, s.GetMonthlyTable, opts)
	handle(mux, CardServiceSetMonthlyCardStatusProcedure, s.SetMonthlyCardStatus, opts)
	handle(mux, CardServiceToggleMonthlyCardStatusProcedure, s.ToggleMonthlyCardStatus, opts)
}

// CreateCard creates a new card.
func (s *CardService) CreateCard(ctx context.Context, req *connect.Request[CreateCardRequest]) (*connect.Response[CreateCardResponse], error) {
	slog.Info("CreateCard request received", "name", req.Msg.Name, "type", req.Msg.Type)

	card := &models.Card{
		Name:  strings.TrimSpace(req.Msg.Name),
		Type:  req.Msg.Type,
		Color: req.Msg.Color,
	}
	if err := card.Validate(); err != nil {
		return nil, fail("CreateCard", err)
	}

	if err := s.store.CreateCard(ctx, card); err != nil {
		return nil, fail("CreateCard", err)
	}

	slog.Info("Card created", "card_id", card.ID)

	return connect.NewResponse(&CreateCardResponse{Card: card}), nil
}

// ListCards retrieves all cards.
func (s *CardService) ListCards(ctx context.Context, req *connect.Request[ListCardsRequest]) (*connect.Response[ListCardsResponse], error) {
	cards, err := s.store.ListCards(ctx)
	if err != nil {
		return nil, fail("ListCards", err)
	}

	slog.Info("ListCards successful", "count", len(cards))

	return connect.NewResponse(&ListCardsResponse{Cards: nonNil(cards)}), nil
}

// UpdateCard applies the set fields of the request to a card.
func (s *CardService) UpdateCard(ctx context.Context, req *connect.Request[UpdateCardRequest]) (*connect.Response[UpdateCardResponse], error) {
	slog.Info("UpdateCard request received", "card_id", req.Msg.CardID)

	card, err := s.store.GetCard(ctx, req.Msg.CardID)
	if err != nil {
		return nil, fail("UpdateCard", err, "card_id", req.Msg.CardID)
	}

	req.Msg.CardUpdate.Apply(card)
	if err := card.Validate(); err != nil {
		return nil, fail("UpdateCard", err, "card_id", card.ID)
	}

	if err := s.store.UpdateCard(ctx, card); err != nil {
		return nil, fail("UpdateCard", err, "card_id", card.ID)
	}

	slog.Info("Card updated", "card_id", card.ID)

	return connect.NewResponse(&UpdateCardResponse{Card: card}), nil
}

// DeleteCard removes a card. Transactions charged to it keep their card ID
// and show up in a row of their own in the monthly table.
func (s *CardService) DeleteCard(ctx context.Context, req *connect.Request[DeleteCardRequest]) (*connect.Response[DeleteCardResponse], error) {
	slog.Info("DeleteCard request received", "card_id", req.Msg.CardID)

	if err := s.store.DeleteCard(ctx, req.Msg.CardID); err != nil {
		return nil, fail("DeleteCard", err, "card_id", req.Msg.CardID)
	}

	slog.Info("Card deleted", "card_id", req.Msg.CardID)

	return connect.NewResponse(&DeleteCardResponse{}), nil
}

// GetMonthlyTable buckets one year of transactions by card and month.
// Year zero means the current year.
func (s *CardService) GetMonthlyTable(ctx context.Context, req *connect.Request[GetMonthlyTableRequest]) (*connect.Response[GetMonthlyTableResponse], error) {
	q := calculator.MonthlyQuery{
		Year:     req.Msg.Year,
		CardID:   req.Msg.CardID,
		GroupID:  req.Msg.GroupID,
		PersonID: req.Msg.PersonID,
		Status:   req.Msg.Status,
		Location: s.loc,
	}
	q.Year = s.year(q.Year)

	slog.Info("GetMonthlyTable request received",
		"year", q.Year,
		"card_id", q.CardID,
		"group_id", q.GroupID,
		"person_id", q.PersonID,
		"status", q.Status,
	)

	if err := models.ValidateYear(q.Year); err != nil {
		return nil, fail("GetMonthlyTable", err)
	}
	if !q.Status.Valid() {
		return nil, fail("GetMonthlyTable", &models.ValidationError{Field: "status", Reason: "must be empty, paid or pending"})
	}

	from := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(1, 0, 0)

	var (
		cards    []*models.Card
		txs      []*models.Transaction
		statuses []*models.MonthlyCardStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = s.store.ListCards(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactionsByDate(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = s.store.ListMonthlyCardStatusesByYear(gctx, q.Year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fail("GetMonthlyTable", err, "year", q.Year)
	}

	table := calculator.BuildMonthlyTable(cards, txs, statuses, q)

	slog.Info("GetMonthlyTable successful",
		"year", q.Year,
		"rows", len(table.Rows),
		"transactions", len(txs),
		"grand_total", table.GrandTotal.String(),
	)

	return connect.NewResponse(&GetMonthlyTableResponse{
		Table:        table,
		VisibleCells: nonNil(table.VisibleCells()),
	}), nil
}

// SetMonthlyCardStatus marks one card month as paid or pending. Year 0 is
// the current year.
func (s *CardService) SetMonthlyCardStatus(ctx context.Context, req *connect.Request[SetMonthlyCardStatusRequest]) (*connect.Response[SetMonthlyCardStatusResponse], error) {
	year := s.year(req.Msg.Year)
	slog.Info("SetMonthlyCardStatus request received",
		"card_id", req.Msg.CardID,
		"year", year,
		"month", req.Msg.Month,
		"is_paid", req.Msg.IsPaid,
	)

	status, err := s.setStatus(ctx, req.Msg.CardID, year, req.Msg.Month, req.Msg.IsPaid)
	if err != nil {
		return nil, fail("SetMonthlyCardStatus", err, "card_id", req.Msg.CardID)
	}

	return connect.NewResponse(&SetMonthlyCardStatusResponse{Status: status}), nil
}

// ToggleMonthlyCardStatus flips the paid flag of one card month. A month
// without a status counts as pending, so the first toggle marks it paid.
// Year 0 is the current year.
func (s *CardService) ToggleMonthlyCardStatus(ctx context.Context, req *connect.Request[ToggleMonthlyCardStatusRequest]) (*connect.Response[ToggleMonthlyCardStatusResponse], error) {
	year := s.year(req.Msg.Year)
	slog.Info("ToggleMonthlyCardStatus request received",
		"card_id", req.Msg.CardID,
		"year", year,
		"month", req.Msg.Month,
	)

	key := models.MonthlyCardStatus{CardID: req.Msg.CardID, Year: year, Month: req.Msg.Month}
	if err := key.Validate(); err != nil {
		return nil, fail("ToggleMonthlyCardStatus", err, "card_id", req.Msg.CardID)
	}

	isPaid := false
	current, err := s.store.GetMonthlyCardStatus(ctx, models.StatusID(req.Msg.CardID, year, req.Msg.Month))
	switch {
	case err == nil:
		isPaid = current.IsPaid
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fail("ToggleMonthlyCardStatus", err, "card_id", req.Msg.CardID)
	}

	status, err := s.setStatus(ctx, req.Msg.CardID, year, req.Msg.Month, !isPaid)
	if err != nil {
		return nil, fail("ToggleMonthlyCardStatus", err, "card_id", req.Msg.CardID)
	}

	return connect.NewResponse(&ToggleMonthlyCardStatusResponse{Status: status}), nil
}

// year resolves 0 to the current year in the service location.
func (s *CardService) year(y int) int {
	if y == 0 {
		return s.now().In(s.loc).Year()
	}
	return y
}

func (s *CardService) setStatus(ctx context.Context, cardID string, year, month int, isPaid bool) (*models.MonthlyCardStatus, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	status := calculator.NewMonthlyCardStatus(cardID, year, month, isPaid, now)
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpsertMonthlyCardStatus(ctx, status); err != nil {
		return nil, err
	}

	slog.Info("Monthly card status saved", "status_id", status.ID, "is_paid", status.IsPaid)
	return status, nil
}
