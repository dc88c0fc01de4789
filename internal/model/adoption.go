package model

import "time"

// Adoption links a user to a cat. The pair (UserID, CatID) is unique at the
// database level; a user adopts a given cat at most once. Rows are only ever
// inserted and deleted, never updated.
type Adoption struct {
	ID        uint64    // adoptions.id
	UserID    uint64    // adoptions.user_id (FK users, cascade delete)
	CatID     uint64    // adoptions.cat_id (FK cats, cascade delete)
	CreatedAt time.Time // adoptions.created_at
}
