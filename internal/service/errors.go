package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrZeroTotal):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs a failed operation and returns its Connect error.
func fail(op string, err error, args ...any) error {
	connectErr := toConnectError(err)
	args = append(args, "code", connectErr.Code(), "error", err)
	if connectErr.Code() == connect.CodeInternal {
		slog.Error(op+" failed", args...)
	} else {
		slog.Warn(op+" failed", args...)
	}
	return connectErr
}
