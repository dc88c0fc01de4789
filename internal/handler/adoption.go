package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cat-gallery/internal/middleware"
	"github.com/iliyamo/cat-gallery/internal/model"
	"github.com/iliyamo/cat-gallery/internal/queue"
)

// AdoptionStore is the slice of the adoption repository the handlers need.
type AdoptionStore interface {
	Adopt(ctx context.Context, userID, catID uint64) error
	Unadopt(ctx context.Context, userID, catID uint64) (int64, error)
	ListCats(ctx context.Context, userID uint64) ([]model.Cat, error)
}

// PublishFunc sends an adoption event to the broker. nil disables publishing.
type PublishFunc func(ctx context.Context, ev queue.AdoptionEvent) error

// AdoptionHandler mutates and queries the user-cat adoption relation. The
// acting user always comes from the resolved identity, never from the
// request body, so a client cannot adopt on someone else's behalf.
type AdoptionHandler struct {
	Adoptions AdoptionStore
	Publish   PublishFunc
}

func NewAdoptionHandler(store AdoptionStore, publish PublishFunc) *AdoptionHandler {
	return &AdoptionHandler{Adoptions: store, Publish: publish}
}

type adoptReq struct {
	ItemID uint64 `json:"itemId"`
}

// List returns the cats adopted by the authenticated user.
func (h *AdoptionHandler) List(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cats, err := h.Adoptions.ListCats(ctx, id.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Database error"})
	}
	return c.JSON(http.StatusOK, cats)
}

// Adopt records an adoption. Repeating the call for the same cat is not an
// error; the store insert is idempotent and the response does not
// distinguish "already adopted" from "newly adopted".
func (h *AdoptionHandler) Adopt(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authenticated"})
	}

	var req adoptReq
	if err := c.Bind(&req); err != nil || req.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "itemId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Adoptions.Adopt(ctx, id.ID, req.ItemID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Database error"})
	}

	h.publish(queue.ActionAdopted, id.ID, id.Username, req.ItemID)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Cat adopted successfully"})
}

// Unadopt removes an adoption. Deleting a pair that does not exist still
// succeeds; the affected-row count is informational only.
func (h *AdoptionHandler) Unadopt(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authenticated"})
	}

	catID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil || catID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid itemId"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Adoptions.Unadopt(ctx, id.ID, catID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Database error"})
	}

	h.publish(queue.ActionUnadopted, id.ID, id.Username, catID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Adoption removed successfully"})
}

// publish fires an adoption event in the background. Event delivery is best
// effort and never delays or fails the request.
func (h *AdoptionHandler) publish(action string, userID uint64, username string, catID uint64) {
	if h.Publish == nil {
		return
	}
	ev := queue.AdoptionEvent{
		Action:     action,
		UserID:     userID,
		Username:   username,
		CatID:      catID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}
