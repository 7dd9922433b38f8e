package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	// ErrStoreUnavailable covers connection failures, network errors and
	// request timeouts.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrQueryRejected covers malformed filters, pipelines and index specs,
	// whether rejected locally or by the server.
	ErrQueryRejected = errors.New("query rejected")
)

// OpError wraps a failed store operation. It unwraps to both its Kind and
// the original driver error.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Classify maps a driver error onto ErrStoreUnavailable or ErrQueryRejected.
// It returns nil for nil and for mongo.ErrNoDocuments, which callers treat
// as an empty result.
func Classify(err error) error {
	switch {
	case err == nil, errors.Is(err, mongo.ErrNoDocuments):
		return nil
	case errors.Is(err, ErrStoreUnavailable):
		return ErrStoreUnavailable
	case errors.Is(err, ErrQueryRejected):
		return ErrQueryRejected
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return ErrStoreUnavailable
	}
	return ErrQueryRejected
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	kind := Classify(err)
	if kind == nil {
		return err
	}
	return &OpError{Op: op, Kind: kind, Err: err}
}

func Rejected(op string, err error) error {
	return &OpError{Op: op, Kind: ErrQueryRejected, Err: err}
}

func outcome(err error) string {
	switch {
	case err == nil, errors.Is(err, mongo.ErrNoDocuments):
		return "ok"
	case errors.Is(err, ErrStoreUnavailable):
		return "unavailable"
	default:
		return "rejected"
	}
}
