package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Carrier is one credential-carrying strategy. Issue hands a credential to
// the client after login (returning a token string when the credential
// travels in the response body, empty when it travels in a Set-Cookie
// header). Resolve validates the credential replayed on a later request.
// Clear invalidates it on logout. Exactly one Carrier is active per
// deployment.
type Carrier interface {
	Issue(ctx context.Context, w http.ResponseWriter, id Identity) (token string, err error)
	Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (Identity, error)
	Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// bearerToken extracts the Authorization header value, normalizing absent
// headers and the browser's literal "undefined" to empty.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if raw == "undefined" || raw == "null" {
		return ""
	}
	return raw
}

// BearerCarrier carries a signed JWT in the Authorization header. Logout is
// advisory: stateless tokens cannot be revoked server-side, the client is
// expected to discard the token.
type BearerCarrier struct {
	Secret string
	TTL    time.Duration
}

func NewBearerCarrier(secret string, ttl time.Duration) *BearerCarrier {
	return &BearerCarrier{Secret: secret, TTL: ttl}
}

func (b *BearerCarrier) Issue(_ context.Context, _ http.ResponseWriter, id Identity) (string, error) {
	return SignToken(b.Secret, id, b.TTL)
}

func (b *BearerCarrier) Resolve(_ context.Context, _ http.ResponseWriter, r *http.Request) (Identity, error) {
	raw := bearerToken(r)
	if raw == "" {
		return Identity{}, ErrNoCredential
	}
	id, err := ParseToken(b.Secret, raw)
	if err != nil {
		return Identity{}, ErrBadCredential
	}
	return id, nil
}

func (b *BearerCarrier) Clear(context.Context, http.ResponseWriter, *http.Request) error {
	return nil
}

// CookieCarrier carries the same signed JWT in an HTTP-only cookie instead
// of the Authorization header, keeping the token out of reach of page
// scripts.
type CookieCarrier struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

func NewCookieCarrier(secret string, ttl time.Duration, name string, secure bool) *CookieCarrier {
	return &CookieCarrier{Secret: secret, TTL: ttl, CookieName: name, Secure: secure}
}

func (cc *CookieCarrier) Issue(_ context.Context, w http.ResponseWriter, id Identity) (string, error) {
	tok, err := SignToken(cc.Secret, id, cc.TTL)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, cc.cookie(tok, cc.TTL))
	return "", nil
}

func (cc *CookieCarrier) Resolve(_ context.Context, _ http.ResponseWriter, r *http.Request) (Identity, error) {
	c, err := r.Cookie(cc.CookieName)
	if err != nil || c.Value == "" || c.Value == "undefined" {
		return Identity{}, ErrNoCredential
	}
	id, err := ParseToken(cc.Secret, c.Value)
	if err != nil {
		return Identity{}, ErrBadCredential
	}
	return id, nil
}

func (cc *CookieCarrier) Clear(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, cc.cookie("", -time.Hour))
	return nil
}

func (cc *CookieCarrier) cookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     cc.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
