package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists server-side sessions. Get joins the owning user so
// one lookup yields the full identity plus the expiry. Implementations map
// a missing row to ErrSessionNotFound; any other failure passes through and
// is treated as the store being unavailable.
type SessionStore interface {
	Create(ctx context.Context, id string, userID uint64, expiresAt time.Time) error
	Get(ctx context.Context, id string) (Identity, time.Time, error)
	Delete(ctx context.Context, id string) error
}

// SessionCarrier stores login state server-side and hands the client only an
// opaque session id in an HTTP-only cookie. It also owns the one-way legacy
// bridge: a request with no session cookie but a still-valid bearer JWT from
// the token era gets a session materialized from the token's claims.
type SessionCarrier struct {
	Store      SessionStore
	Secret     string // verifies legacy bearer tokens only
	TTL        time.Duration
	CookieName string
	Secure     bool
}

func NewSessionCarrier(store SessionStore, secret string, ttl time.Duration, name string, secure bool) *SessionCarrier {
	return &SessionCarrier{Store: store, Secret: secret, TTL: ttl, CookieName: name, Secure: secure}
}

func (sc *SessionCarrier) Issue(ctx context.Context, w http.ResponseWriter, id Identity) (string, error) {
	sid := uuid.NewString()
	exp := time.Now().UTC().Add(sc.TTL)
	if err := sc.Store.Create(ctx, sid, id.ID, exp); err != nil {
		return "", ErrStoreUnavailable
	}
	http.SetCookie(w, sc.cookie(sid, sc.TTL))
	return "", nil
}

func (sc *SessionCarrier) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (Identity, error) {
	c, err := r.Cookie(sc.CookieName)
	if err != nil || c.Value == "" || c.Value == "undefined" {
		// No session: a structurally valid legacy bearer token upgrades
		// into a fresh session exactly once.
		return sc.upgradeLegacy(ctx, w, r)
	}

	id, exp, err := sc.Store.Get(ctx, c.Value)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Identity{}, ErrBadCredential
		}
		return Identity{}, ErrStoreUnavailable
	}
	if time.Now().UTC().After(exp) {
		// Expired row; best-effort cleanup, the sweeper catches leftovers.
		_ = sc.Store.Delete(ctx, c.Value)
		return Identity{}, ErrBadCredential
	}
	return id, nil
}

// upgradeLegacy materializes a session from a valid bearer JWT presented by
// a client that predates the session deployment. It is a migration bridge,
// not a dual-mode resolver: without such a token the request is simply
// unauthenticated.
func (sc *SessionCarrier) upgradeLegacy(ctx context.Context, w http.ResponseWriter, r *http.Request) (Identity, error) {
	raw := bearerToken(r)
	if raw == "" {
		return Identity{}, ErrNoCredential
	}
	id, err := ParseToken(sc.Secret, raw)
	if err != nil {
		return Identity{}, ErrBadCredential
	}
	sid := uuid.NewString()
	exp := time.Now().UTC().Add(sc.TTL)
	if err := sc.Store.Create(ctx, sid, id.ID, exp); err != nil {
		return Identity{}, ErrStoreUnavailable
	}
	http.SetCookie(w, sc.cookie(sid, sc.TTL))
	return id, nil
}

func (sc *SessionCarrier) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if c, err := r.Cookie(sc.CookieName); err == nil && c.Value != "" {
		if err := sc.Store.Delete(ctx, c.Value); err != nil {
			return ErrStoreUnavailable
		}
	}
	http.SetCookie(w, sc.cookie("", -time.Hour))
	return nil
}

func (sc *SessionCarrier) cookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     sc.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
