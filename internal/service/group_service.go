package service

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store storage.Store
	loc   *time.Location
}

// NewGroupService creates a new GroupService with the given storage backend.
// loc decides which calendar month a transaction counts toward in spending series.
func NewGroupService(store storage.Store, loc *time.Location) *GroupService {
	return &GroupService{store: store, loc: loc}
}

func (s *GroupService) register(mux *http.ServeMux, opts []connect.HandlerOption) {
	handle(mux, GroupServiceCreateGroupProcedure, s.CreateGroup, opts)
	handle(mux, GroupServiceGetGroupProcedure, s.GetGroup, opts)
	handle(mux, GroupServiceListGroupsProcedure, s.ListGroups, opts)
	handle(mux, GroupServiceUpdateGroupProcedure, s.UpdateGroup, opts)
	handle(mux, GroupServiceDeleteGroupProcedure, s.DeleteGroup, opts)
	handle(mux, GroupServiceGetGroupBalancesProcedure, s.GetGroupBalances, opts)
	handle(mux, GroupServiceGetGroupSpendingProcedure, s.GetGroupSpending, opts)
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.PersonIDs),
	)

	group := &models.Group{
		Name:        strings.TrimSpace(req.Msg.Name),
		Description: req.Msg.Description,
		Color:       req.Msg.Color,
		Icon:        req.Msg.Icon,
		PersonIDs:   models.UniqueIDs(req.Msg.PersonIDs),
	}
	if err := group.Validate(); err != nil {
		return nil, fail("CreateGroup", err)
	}

	// Save to storage (generates ID and timestamps)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fail("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&CreateGroupResponse{Group: group}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("GetGroup", err, "group_id", req.Msg.GroupID)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&GetGroupResponse{Group: group}), nil
}

// ListGroups retrieves all groups, or only the groups a person belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	slog.Info("ListGroups request received", "person_id", req.Msg.PersonID)

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fail("ListGroups", err)
	}
	if req.Msg.PersonID != "" {
		groups = slices.DeleteFunc(groups, func(g *models.Group) bool {
			return !slices.Contains(g.PersonIDs, req.Msg.PersonID)
		})
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&ListGroupsResponse{Groups: nonNil(groups)}), nil
}

// UpdateGroup applies the set fields of the request to a group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("UpdateGroup", err, "group_id", req.Msg.GroupID)
	}

	req.Msg.GroupUpdate.Apply(group)
	if err := group.Validate(); err != nil {
		return nil, fail("UpdateGroup", err, "group_id", group.ID)
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fail("UpdateGroup", err, "group_id", group.ID)
	}

	slog.Info("Group updated", "group_id", group.ID, "members_count", len(group.PersonIDs))

	return connect.NewResponse(&UpdateGroupResponse{Group: group}), nil
}

// DeleteGroup removes a group together with its transactions and their
// payments. Deleting a missing group succeeds.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, fail("DeleteGroup", err, "group_id", req.Msg.GroupID)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&DeleteGroupResponse{}), nil
}

// GetGroupBalances returns what each person owes and has paid across the
// group's transactions, with the group's spending summary.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("GetGroupBalances", err, "group_id", req.Msg.GroupID)
	}

	txs, err := s.store.ListTransactionsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fail("GetGroupBalances", err, "group_id", group.ID)
	}

	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fail("GetGroupBalances", err, "group_id", group.ID)
	}

	inGroup := make(map[string]bool, len(txs))
	total := decimal.Zero
	for _, tx := range txs {
		inGroup[tx.ID] = true
		total = total.Add(tx.TotalAmount)
	}
	var scoped []*models.Payment
	for _, p := range payments {
		if inGroup[p.TransactionID] {
			scoped = append(scoped, p)
		}
	}

	balances := calculator.ReconcileBalances(txs, scoped, group.PersonIDs)
	out := make([]Balance, len(balances))
	for i, b := range balances {
		out[i] = Balance{
			PersonID:  b.PersonID,
			Owed:      b.Owed,
			Paid:      b.Paid,
			Remaining: b.Remaining(),
			State:     b.State(),
			Progress:  b.Progress(),
		}
	}

	slog.Info("GetGroupBalances successful",
		"group_id", group.ID,
		"transactions", len(txs),
		"payments", len(scoped),
		"total_spent", total.String(),
	)

	return connect.NewResponse(&GetGroupBalancesResponse{
		GroupID:          group.ID,
		TotalSpent:       total,
		TransactionCount: len(txs),
		Balances:         out,
	}), nil
}

// GetGroupSpending returns the group's spending per calendar month, oldest
// first, limited to the most recent months.
func (s *GroupService) GetGroupSpending(ctx context.Context, req *connect.Request[GetGroupSpendingRequest]) (*connect.Response[GetGroupSpendingResponse], error) {
	slog.Info("GetGroupSpending request received", "group_id", req.Msg.GroupID, "months", req.Msg.Months)

	if req.Msg.Months < 0 {
		return nil, fail("GetGroupSpending", &models.ValidationError{Field: "months", Reason: "must not be negative"})
	}
	months := req.Msg.Months
	if months == 0 {
		months = calculator.DefaultSpendingMonths
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("GetGroupSpending", err, "group_id", req.Msg.GroupID)
	}

	txs, err := s.store.ListTransactionsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fail("GetGroupSpending", err, "group_id", group.ID)
	}

	series := calculator.SpendingByMonth(txs, s.loc, months)

	slog.Info("GetGroupSpending successful", "group_id", group.ID, "months", len(series))

	return connect.NewResponse(&GetGroupSpendingResponse{GroupID: group.ID, Months: series}), nil
}
