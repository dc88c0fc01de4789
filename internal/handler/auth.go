package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cat-gallery/internal/auth"
	"github.com/iliyamo/cat-gallery/internal/config"
	"github.com/iliyamo/cat-gallery/internal/middleware"
	"github.com/iliyamo/cat-gallery/internal/model"
	"github.com/iliyamo/cat-gallery/internal/repository"
	"github.com/iliyamo/cat-gallery/internal/utils"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// AuthHandler bundles dependencies for the auth endpoints. It is the only
// writer of user rows and the only creator of identity carriers.
type AuthHandler struct {
	Cfg     config.Config
	Users   UserStore
	Carrier auth.Carrier
}

func NewAuthHandler(cfg config.Config, users UserStore, carrier auth.Carrier) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Carrier: carrier}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account. Uniqueness is double-checked: a friendly lookup
// first, then the store constraint catches the race between two concurrent
// signups for the same email, so both paths answer 409.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "All fields are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists"})
	} else if !errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Database error"})
	}

	// Hash before the insert; bcrypt is slow on purpose and must not sit on
	// a pooled connection.
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating user"})
	}

	if _, err := h.Users.Create(ctx, req.Username, req.Email, hash); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating user"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User created successfully"})
}

// Login verifies credentials and issues an identity carrier. Unknown email
// and wrong password return the same response so the endpoint is not a
// user-existence oracle.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Database error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}

	id := auth.Identity{ID: u.ID, Username: u.Username, Email: u.Email}
	token, err := h.Carrier.Issue(ctx, c.Response(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error issuing credential"})
	}

	resp := echo.Map{"message": "Login successful", "user": id}
	if token != "" {
		resp["token"] = token
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout invalidates the carrier. Under the bearer strategy this is advisory
// (the client discards its token); cookie and session strategies clear the
// cookie and, for sessions, destroy the server-side record.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Carrier.Clear(ctx, c.Response(), c.Request()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "Service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Verify echoes the identity the resolver attached to the request. Routes
// register it behind the Identity middleware, so reaching the handler means
// the carrier validated.
func (h *AuthHandler) Verify(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": id})
}
