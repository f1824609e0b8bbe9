package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/client"
)

// Failure kinds.
const (
	KindNotConfigured = "NotConfigured"
	KindUnsupported   = "UnsupportedEndpoint"
	KindUnavailable   = "Unavailable"
	KindTimeout       = "Timeout"
	KindUnauthorized  = "Unauthorized"
	KindBadResponse   = "BadResponse"
	KindDecode        = "Decode"
	KindCanceled      = "Canceled"
	KindInternal      = "Internal"
)

// Failure is the only error type returned by Repository. Error renders as
// "<Kind>: <message>".
type Failure struct {
	Op   string
	Kind string
	Err  error
}

func (f *Failure) Error() string {
	msg := "unknown error"
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return f.Kind + ": " + msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(op string, err error) *Failure {
	return &Failure{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) string {
	switch {
	case errors.Is(err, client.ErrNotConfigured):
		return KindNotConfigured
	case errors.Is(err, client.ErrUnsupportedEndpoint):
		return KindUnsupported
	case errors.Is(err, client.ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, client.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, client.ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, client.ErrBadResponse):
		return KindBadResponse
	case errors.Is(err, client.ErrDecode):
		return KindDecode
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}

func panicFailure(op string, p any) *Failure {
	return &Failure{Op: op, Kind: KindInternal, Err: fmt.Errorf("panic: %v", p)}
}
