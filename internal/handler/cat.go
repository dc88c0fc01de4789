package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cat-gallery/internal/model"
	"github.com/iliyamo/cat-gallery/internal/repository"
)

// CatStore is the slice of the cat repository the catalogue handlers need.
type CatStore interface {
	List(ctx context.Context) ([]model.Cat, error)
	Get(ctx context.Context, id uint64) (model.Cat, error)
	Create(ctx context.Context, name, tag, description, img string) (uint64, error)
	Update(ctx context.Context, id uint64, name, tag, description, img string) error
	Patch(ctx context.Context, id uint64, fields map[string]string) error
	Delete(ctx context.Context, id uint64) error
}

// CatHandler implements the catalogue CRUD surface. These endpoints predate
// the auth subsystem and keep their historical `error`-keyed bodies.
type CatHandler struct {
	Cats CatStore
}

func NewCatHandler(store CatStore) *CatHandler { return &CatHandler{Cats: store} }

type catReq struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
	Img         string `json:"img"`
}

func catID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func (h *CatHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cats, err := h.Cats.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Query execution error"})
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatHandler) Get(c echo.Context) error {
	id, err := catID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cat, err := h.Cats.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Cat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Query error"})
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatHandler) Create(c echo.Context) error {
	var req catReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.Tag == "" || req.Description == "" || req.Img == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Cats.Create(ctx, req.Name, req.Tag, req.Description, req.Img)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Query error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Cat inserted successfully",
		"insertedId": id,
	})
}

func (h *CatHandler) Update(c echo.Context) error {
	id, err := catID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}
	var req catReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.Tag == "" || req.Description == "" || req.Img == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Cats.Update(ctx, id, req.Name, req.Tag, req.Description, req.Img); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Cat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Query error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Cat updated successfully",
		"id":      id,
	})
}

func (h *CatHandler) Patch(c echo.Context) error {
	id, err := catID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}
	var req catReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	fields := map[string]string{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Tag != "" {
		fields["tag"] = req.Tag
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Img != "" {
		fields["img"] = req.Img
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No fields provided to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Cats.Patch(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Cat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Query error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Cat updated successfully",
		"updatedFields": fields,
	})
}

func (h *CatHandler) Delete(c echo.Context) error {
	id, err := catID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Cats.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Cat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Query error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Cat deleted successfully",
		"deletedId": id,
	})
}
