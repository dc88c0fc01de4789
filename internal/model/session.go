package model

import "time"

// Session is a server-side login record from the `sessions` table. The ID is
// an opaque UUID handed to the client in an HTTP-only cookie; only
// session-carrier deployments read or write this table.
type Session struct {
	ID        string    // sessions.id (UUID)
	UserID    uint64    // sessions.user_id (FK users, cascade delete)
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}
