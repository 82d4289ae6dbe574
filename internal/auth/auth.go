// Package auth defines the connection-authentication hook a yuzu.Server
// can be configured with, plus one concrete JWT-bearer implementation.
package auth

import "net/http"

// Info carries everything an Authenticate hook needs to decide whether to
// accept a connection attempt. It is deliberately a plain struct rather
// than the *http.Request itself, so transports other than the default
// WebSocket one (e.g. internal/transport/external.go) can still populate
// it from whatever carrier-specific request data they have.
type Info struct {
	// Request is the originating HTTP request, present for the default
	// WebSocket transport and nil for transports that never see one.
	Request *http.Request
	// Query holds the connection's query parameters regardless of
	// transport.
	Query map[string][]string
	// Origin is the request's Origin header, if any.
	Origin string
}

// Authenticate decides whether a connection attempt is accepted. Returning
// (false, nil) rejects the connection without treating it as an error;
// returning a non-nil error additionally surfaces the reason in logs and
// metrics, since rejection and failure are distinguishable outcomes.
type Authenticate func(Info) (bool, error)

// AllowAll is the default Authenticate hook: every connection is accepted.
// yuzu.Server uses this unless a host configures something else.
func AllowAll(Info) (bool, error) {
	return true, nil
}
