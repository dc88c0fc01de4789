package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cat-gallery/internal/auth"
)

// identityKey is the Echo context key the resolver stores the identity under.
const identityKey = "identity"

// Identity returns middleware that resolves the request's credential through
// the configured carrier and attaches the resulting identity to the context.
// Requests without a credential, or with an invalid one, never reach the
// wrapped handler. A session-store outage fails only the current request
// with a 503.
func Identity(carrier auth.Carrier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := carrier.Resolve(c.Request().Context(), c.Response(), c.Request())
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrNoCredential):
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authenticated"})
				case errors.Is(err, auth.ErrStoreUnavailable):
					return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "Service unavailable"})
				default:
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
				}
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity the resolver attached to the request.
// ok is false on routes that run without the Identity middleware.
func CurrentIdentity(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok
}
