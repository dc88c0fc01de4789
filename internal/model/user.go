package model

import "time"

// User represents a registered account as stored in the `users` table.
// PasswordHash is a bcrypt digest and must never be serialized outward;
// handlers build their own response types with only id/username/email.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username (unique)
	Email        string    // users.email (unique, login key)
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
