package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrNotConfigured       = errors.New("backend not configured")
	ErrUnsupportedEndpoint = errors.New("unsupported endpoint")
	ErrUnavailable         = errors.New("server unavailable")
	ErrTimeout             = errors.New("request timed out")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrBadResponse         = errors.New("unexpected response")
	ErrDecode              = errors.New("malformed response")
)

// mapTransportError classifies errors returned before any response arrived.
func mapTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
