package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cat-gallery/internal/auth"
)

// stubCarrier resolves to a fixed identity or error.
type stubCarrier struct {
	id  auth.Identity
	err error
}

func (s stubCarrier) Issue(context.Context, http.ResponseWriter, auth.Identity) (string, error) {
	return "", nil
}
func (s stubCarrier) Resolve(context.Context, http.ResponseWriter, *http.Request) (auth.Identity, error) {
	return s.id, s.err
}
func (s stubCarrier) Clear(context.Context, http.ResponseWriter, *http.Request) error {
	return nil
}

func TestIdentity_Resolved(t *testing.T) {
	t.Parallel()

	want := auth.Identity{ID: 3, Username: "bob", Email: "b@x.com"}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/adoptions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Identity(stubCarrier{id: want})(func(c echo.Context) error {
		called = true
		got, ok := CurrentIdentity(c)
		if !ok {
			t.Fatalf("CurrentIdentity not set inside handler")
		}
		if got != want {
			t.Fatalf("identity mismatch: got %+v want %+v", got, want)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("wrapped handler was not invoked")
	}
}

func TestIdentity_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "missing credential", err: auth.ErrNoCredential, wantStatus: http.StatusUnauthorized, wantBody: "Not authenticated"},
		{name: "invalid credential", err: auth.ErrBadCredential, wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "expired token", err: auth.ErrTokenExpired, wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "store down", err: auth.ErrStoreUnavailable, wantStatus: http.StatusServiceUnavailable, wantBody: "Service unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/adoptions", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := Identity(stubCarrier{err: tt.err})(func(c echo.Context) error {
				t.Fatalf("handler must not run on %s", tt.name)
				return nil
			})
			if err := h(c); err != nil {
				t.Fatalf("middleware error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCurrentIdentity_Absent(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := CurrentIdentity(c); ok {
		t.Fatalf("CurrentIdentity reported an identity on a bare context")
	}
}
