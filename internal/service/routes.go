package service

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/jsoncodec"
)

// Service names. Every procedure is "/<service>/<method>".
const (
	PersonServiceName      = "ledger.v1.PersonService"
	CardServiceName        = "ledger.v1.CardService"
	GroupServiceName       = "ledger.v1.GroupService"
	TransactionServiceName = "ledger.v1.TransactionService"
)

const (
	PersonServiceCreatePersonProcedure = "/" + PersonServiceName + "/CreatePerson"
	PersonServiceListPersonsProcedure  = "/" + PersonServiceName + "/ListPersons"
	PersonServiceUpdatePersonProcedure = "/" + PersonServiceName + "/UpdatePerson"
	PersonServiceDeletePersonProcedure = "/" + PersonServiceName + "/DeletePerson"

	CardServiceCreateCardProcedure              = "/" + CardServiceName + "/CreateCard"
	CardServiceListCardsProcedure               = "/" + CardServiceName + "/ListCards"
	CardServiceUpdateCardProcedure              = "/" + CardServiceName + "/UpdateCard"
	CardServiceDeleteCardProcedure              = "/" + CardServiceName + "/DeleteCard"
	CardServiceGetMonthlyTableProcedure         = "/" + CardServiceName + "/GetMonthlyTable"
	CardServiceSetMonthlyCardStatusProcedure    = "/" + CardServiceName + "/SetMonthlyCardStatus"
	CardServiceToggleMonthlyCardStatusProcedure = "/" + CardServiceName + "/ToggleMonthlyCardStatus"

	GroupServiceCreateGroupProcedure      = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure         = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupsProcedure       = "/" + GroupServiceName + "/ListGroups"
	GroupServiceUpdateGroupProcedure      = "/" + GroupServiceName + "/UpdateGroup"
	GroupServiceDeleteGroupProcedure      = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceGetGroupBalancesProcedure = "/" + GroupServiceName + "/GetGroupBalances"
	GroupServiceGetGroupSpendingProcedure = "/" + GroupServiceName + "/GetGroupSpending"

	TransactionServicePreviewSplitProcedure              = "/" + TransactionServiceName + "/PreviewSplit"
	TransactionServiceCreateTransactionProcedure         = "/" + TransactionServiceName + "/CreateTransaction"
	TransactionServiceGetTransactionProcedure            = "/" + TransactionServiceName + "/GetTransaction"
	TransactionServiceListTransactionsProcedure          = "/" + TransactionServiceName + "/ListTransactions"
	TransactionServiceListTransactionsByGroupProcedure   = "/" + TransactionServiceName + "/ListTransactionsByGroup"
	TransactionServiceUpdateTransactionProcedure         = "/" + TransactionServiceName + "/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure         = "/" + TransactionServiceName + "/DeleteTransaction"
	TransactionServiceAddPaymentProcedure                = "/" + TransactionServiceName + "/AddPayment"
	TransactionServiceListPaymentsByTransactionProcedure = "/" + TransactionServiceName + "/ListPaymentsByTransaction"
	TransactionServiceDeletePaymentProcedure             = "/" + TransactionServiceName + "/DeletePayment"
	TransactionServiceGetTransactionSettlementProcedure  = "/" + TransactionServiceName + "/GetTransactionSettlement"
)

// Options configures the services behind NewHandler.
type Options struct {
	// Location decides which calendar month a transaction falls in.
	Location *time.Location

	// Now is the clock used for status timestamps. Defaults to time.Now.
	Now func() time.Time

	// HandlerOptions are appended to every handler, after the JSON codec.
	HandlerOptions []connect.HandlerOption
}

// NewHandler returns a mux serving every ledger service.
func NewHandler(store storage.Store, opts Options) http.Handler {
	mux := http.NewServeMux()
	Register(mux, store, opts)
	return mux
}

// Register mounts every ledger procedure on mux.
func Register(mux *http.ServeMux, store storage.Store, opts Options) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	handlerOpts := append([]connect.HandlerOption{connect.WithCodec(jsoncodec.Codec{})}, opts.HandlerOptions...)

	NewPersonService(store).register(mux, handlerOpts)
	NewCardService(store, opts.Location, opts.Now).register(mux, handlerOpts)
	NewGroupService(store, opts.Location).register(mux, handlerOpts)
	NewTransactionService(store).register(mux, handlerOpts)
}

func handle[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}
