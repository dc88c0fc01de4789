// Package auth turns credentials into identities. It contains the JWT codec
// and the three identity-carrier strategies (bearer token, cookie token,
// server session) behind a single Carrier interface.
package auth

import "errors"

// Identity is the resolved user attached to a request after its carrier has
// been validated. It is never populated from client-supplied body fields.
type Identity struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Carrier resolution errors. Handlers and middleware translate these into
// HTTP status codes; the distinction between "no credential" and "bad
// credential" never reaches response bodies in a way that leaks account
// existence.
var (
	// ErrNoCredential means the request carried no credential at all
	// (or the browser's literal "undefined" placeholder).
	ErrNoCredential = errors.New("missing credential")

	// ErrBadCredential means a credential was present but failed
	// signature, expiry or session validation.
	ErrBadCredential = errors.New("invalid credential")

	// ErrStoreUnavailable means the session store could not be reached.
	// The single request fails with a 5xx; the process keeps serving.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrSessionNotFound is returned by SessionStore implementations when
	// no row matches the presented session id.
	ErrSessionNotFound = errors.New("session not found")
)
