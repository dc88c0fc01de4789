package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cat-gallery/internal/model"
)

type CatRepo struct{ DB *sql.DB }

func NewCatRepo(db *sql.DB) *CatRepo { return &CatRepo{DB: db} }

// List returns the whole catalogue. The front-end paginates client-side.
func (r *CatRepo) List(ctx context.Context) ([]model.Cat, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, tag, description, img FROM cats ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]model.Cat, 0)
	for rows.Next() {
		var c model.Cat
		if err := rows.Scan(&c.ID, &c.Name, &c.Tag, &c.Description, &c.Img); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Get fetches one cat by id; ErrNotFound when no row matches.
func (r *CatRepo) Get(ctx context.Context, id uint64) (model.Cat, error) {
	var c model.Cat
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, tag, description, img FROM cats WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.Name, &c.Tag, &c.Description, &c.Img)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Cat{}, ErrNotFound
	}
	return c, err
}

// Create inserts a cat and returns its ID.
func (r *CatRepo) Create(ctx context.Context, name, tag, description, img string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO cats (name, tag, description, img) VALUES (?,?,?,?)",
		name, tag, description, img)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update replaces every field of a cat; ErrNotFound when the id is unknown.
func (r *CatRepo) Update(ctx context.Context, id uint64, name, tag, description, img string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cats SET name=?, tag=?, description=?, img=? WHERE id=?",
		name, tag, description, img, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// patchable whitelists the columns a partial update may touch.
var patchable = map[string]bool{
	"name":        true,
	"tag":         true,
	"description": true,
	"img":         true,
}

// Patch updates only the provided fields. Unknown keys are rejected so a
// request body can never reach columns outside the whitelist.
func (r *CatRepo) Patch(ctx context.Context, id uint64, fields map[string]string) error {
	set := ""
	args := make([]any, 0, len(fields)+1)
	for col, val := range fields {
		if !patchable[col] {
			return errors.New("unknown field: " + col)
		}
		if set != "" {
			set += ", "
		}
		set += col + "=?"
		args = append(args, val)
	}
	if set == "" {
		return errors.New("no fields to update")
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, "UPDATE cats SET "+set+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a cat; adoptions referencing it cascade away at the store
// level. ErrNotFound when the id is unknown.
func (r *CatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cats WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
