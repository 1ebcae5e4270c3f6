package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/jsoncodec"
)

// testNow is the fixed clock of every test server.
var testNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	url   string
	store *sqlite.SQLiteStore
}

// setupTestServer serves every ledger service over a temp database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	handler := NewHandler(store, Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
		HandlerOptions: []connect.HandlerOption{
			connect.WithInterceptors(middleware.LoggingInterceptor()),
		},
	})
	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, store: store}
}

// call invokes one procedure through a Connect client using the JSON codec.
func call[Res, Req any](t *testing.T, srv *testServer, procedure string, req *Req) (*Res, error) {
	t.Helper()

	client := connect.NewClient[Req, Res](http.DefaultClient, srv.url+procedure, connect.WithCodec(jsoncodec.Codec{}))
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// mustCall is call for requests expected to succeed.
func mustCall[Res, Req any](t *testing.T, srv *testServer, procedure string, req *Req) *Res {
	t.Helper()

	res, err := call[Res](t, srv, procedure, req)
	require.NoError(t, err, procedure)
	return res
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), err.Error())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptr[T any](v T) *T {
	return &v
}
