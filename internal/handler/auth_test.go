package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cat-gallery/internal/auth"
	"github.com/iliyamo/cat-gallery/internal/config"
	"github.com/iliyamo/cat-gallery/internal/middleware"
	"github.com/iliyamo/cat-gallery/internal/model"
	"github.com/iliyamo/cat-gallery/internal/repository"
	"github.com/iliyamo/cat-gallery/internal/utils"
)

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	mu        sync.Mutex
	byEmail   map[string]model.User
	nextID    uint64
	createErr error // forced Create failure, simulates the insert race
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, username, email, passwordHash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return 0, repository.ErrUserExists
	}
	f.nextID++
	f.byEmail[email] = model.User{ID: f.nextID, Username: username, Email: email, PasswordHash: passwordHash}
	return f.nextID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) seed(t *testing.T, username, email, password string) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 10)
	if err != nil {
		t.Fatalf("seed hash: %v", err)
	}
	id, err := f.Create(context.Background(), username, email, hash)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return model.User{ID: id, Username: username, Email: email, PasswordHash: hash}
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, BcryptCost: 10}
}

func newBearerAuthHandler(users UserStore) *AuthHandler {
	cfg := testConfig()
	return NewAuthHandler(cfg, users, auth.NewBearerCarrier(cfg.JWTSecret, cfg.TokenTTL))
}

func jsonContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSignup_Success(t *testing.T) {
	t.Parallel()

	h := newBearerAuthHandler(newFakeUsers())
	c, rec := jsonContext(http.MethodPost, "/auth/signup",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d want 201 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "User created successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSignup_MissingFields(t *testing.T) {
	t.Parallel()

	bodies := []string{
		`{"email":"a@x.com","password":"pw"}`,
		`{"username":"alice","password":"pw"}`,
		`{"username":"alice","email":"a@x.com"}`,
		`{}`,
	}
	for _, body := range bodies {
		h := newBearerAuthHandler(newFakeUsers())
		c, rec := jsonContext(http.MethodPost, "/auth/signup", body)
		if err := h.Signup(c); err != nil {
			t.Fatalf("Signup error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status got %d want 400", body, rec.Code)
		}
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	users.seed(t, "alice", "a@x.com", "pw1")
	h := newBearerAuthHandler(users)

	// Different username and password, same email: still a conflict.
	c, rec := jsonContext(http.MethodPost, "/auth/signup",
		`{"username":"bob","email":"a@x.com","password":"pw2"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User already exists") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSignup_InsertRaceIsConflict(t *testing.T) {
	t.Parallel()

	// The pre-insert lookup sees no user, but the store constraint fires:
	// the race still answers 409, not 500.
	users := newFakeUsers()
	users.createErr = repository.ErrUserExists
	h := newBearerAuthHandler(users)

	c, rec := jsonContext(http.MethodPost, "/auth/signup",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d want 409", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	seeded := users.seed(t, "alice", "a@x.com", "pw1")
	h := newBearerAuthHandler(users)

	c, rec := jsonContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string        `json:"token"`
		User  auth.Identity `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("bearer login returned no token")
	}
	if resp.User.ID != seeded.ID || resp.User.Username != "alice" || resp.User.Email != "a@x.com" {
		t.Fatalf("user view mismatch: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), seeded.PasswordHash) {
		t.Fatalf("response leaked the password hash")
	}
}

func TestLogin_GenericFailureShape(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	users.seed(t, "alice", "a@x.com", "pw1")
	h := newBearerAuthHandler(users)

	// Unknown email and wrong password must be indistinguishable.
	c1, rec1 := jsonContext(http.MethodPost, "/auth/login", `{"email":"nobody@x.com","password":"pw1"}`)
	if err := h.Login(c1); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	c2, rec2 := jsonContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`)
	if err := h.Login(c2); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if rec1.Code != http.StatusUnauthorized || rec2.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: %d and %d, want 401 for both", rec1.Code, rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("failure bodies differ:\n%s\n%s", rec1.Body.String(), rec2.Body.String())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	h := newBearerAuthHandler(newFakeUsers())
	c, rec := jsonContext(http.MethodPost, "/auth/login", `{"email":"a@x.com"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", rec.Code)
	}
}

func TestLogout_Bearer(t *testing.T) {
	t.Parallel()

	h := newBearerAuthHandler(newFakeUsers())
	c, rec := jsonContext(http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Logged out successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// TestVerify_RoundTrip covers the full carrier round trip: a token minted by
// login, replayed on /auth/verify through the resolver, yields the identity
// that was issued.
func TestVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	users.seed(t, "alice", "a@x.com", "pw1")
	h := newBearerAuthHandler(users)

	c, rec := jsonContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	var loginResp struct {
		Token string        `json:"token"`
		User  auth.Identity `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	vrec := httptest.NewRecorder()
	vc := e.NewContext(req, vrec)

	verify := middleware.Identity(h.Carrier)(h.Verify)
	if err := verify(vc); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if vrec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200 (body %s)", vrec.Code, vrec.Body.String())
	}

	var verifyResp struct {
		User auth.Identity `json:"user"`
	}
	if err := json.Unmarshal(vrec.Body.Bytes(), &verifyResp); err != nil {
		t.Fatalf("decode verify: %v", err)
	}
	if verifyResp.User != loginResp.User {
		t.Fatalf("verify identity %+v differs from issued %+v", verifyResp.User, loginResp.User)
	}
}

func TestVerify_NoCarrier(t *testing.T) {
	t.Parallel()

	h := newBearerAuthHandler(newFakeUsers())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verify := middleware.Identity(h.Carrier)(h.Verify)
	if err := verify(c); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
}
