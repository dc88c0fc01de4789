package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// SignToken builds an HS256 JWT binding the identity's id, username and
// email, valid for ttl from now. The claim layout (sub/name/email/iat/exp)
// is what the gallery front-end has always received.
func SignToken(secret string, id Identity, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   id.ID,
		"name":  id.Username,
		"email": id.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken validates a signed token and extracts the identity it encodes.
// Expired tokens surface as ErrTokenExpired even when structurally well
// formed; every other failure collapses to ErrTokenInvalid.
func ParseToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Identity{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}

	var id Identity
	// Numeric claims decode as float64; tolerate string subjects the way
	// older revisions of the service emitted them.
	switch sub := claims["sub"].(type) {
	case float64:
		id.ID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Identity{}, ErrTokenInvalid
		}
		id.ID = n
	default:
		return Identity{}, ErrTokenInvalid
	}
	if id.ID == 0 {
		return Identity{}, ErrTokenInvalid
	}
	if v, ok := claims["name"].(string); ok {
		id.Username = v
	}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	return id, nil
}
