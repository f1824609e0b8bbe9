// Package client talks to the hosted attendance backend.
//
// # Overview
//
// Client is the transport-agnostic handle the rest of the application uses
// to read rows. Two implementations exist:
//
//   - RESTClient speaks PostgREST over HTTP(S) (the hosted Supabase API).
//     The secret key is sent both as the "apikey" header and as a Bearer
//     token.
//   - PostgresClient connects to the underlying PostgreSQL database with
//     pgx when the endpoint is a postgres:// URL.
//
// New picks the implementation from the endpoint scheme. Handles are cheap
// to build and do no I/O until the first Select.
//
// # Timeouts
//
// DefaultTimeouts: 30s to connect, 30s waiting for the response (socket),
// 60s for the whole request.
//
// # Error Handling
//
// Failures are normalised to sentinel errors that callers match with
// errors.Is: ErrUnavailable, ErrTimeout, ErrUnauthorized, ErrBadResponse,
// ErrDecode, ErrUnsupportedEndpoint and ErrNotConfigured. The original
// transport error stays in the chain.
//
// # Keys
//
// InspectKey decodes JWT-shaped keys without verifying them, for display
// only. Keys are never rejected client-side.
package client
