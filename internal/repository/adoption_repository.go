package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cat-gallery/internal/model"
)

type AdoptionRepo struct{ DB *sql.DB }

func NewAdoptionRepo(db *sql.DB) *AdoptionRepo { return &AdoptionRepo{DB: db} }

// Adopt records that a user adopted a cat. INSERT IGNORE makes the operation
// idempotent against the UNIQUE(user_id, cat_id) key: an existing pair is a
// silent success, and two concurrent adopts for the same pair leave exactly
// one row.
func (r *AdoptionRepo) Adopt(ctx context.Context, userID, catID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO adoptions (user_id, cat_id) VALUES (?,?)",
		userID, catID)
	return err
}

// Unadopt removes an adoption pair and returns the number of rows deleted.
// Zero rows is not an error; the count is informational only.
func (r *AdoptionRepo) Unadopt(ctx context.Context, userID, catID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM adoptions WHERE user_id=? AND cat_id=?",
		userID, catID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListCats returns the cats adopted by the given user, oldest adoption first.
func (r *AdoptionRepo) ListCats(ctx context.Context, userID uint64) ([]model.Cat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.name, c.tag, c.description, c.img
		 FROM adoptions a
		 JOIN cats c ON c.id = a.cat_id
		 WHERE a.user_id = ?
		 ORDER BY a.created_at, a.id`,
		userID)
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
