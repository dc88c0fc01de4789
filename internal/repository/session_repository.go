package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cat-gallery/internal/auth"
)

// SessionRepo persists server-side sessions. It satisfies auth.SessionStore
// so the session carrier never touches SQL directly.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row keyed by an opaque id.
func (r *SessionRepo) Create(ctx context.Context, id string, userID uint64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?,?,?)",
		id, userID, expiresAt)
	return err
}

// Get looks up a session and joins the owning user, so one round-trip yields
// the full identity plus the expiry.
func (r *SessionRepo) Get(ctx context.Context, id string) (auth.Identity, time.Time, error) {
	var (
		ident auth.Identity
		exp   time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.email, s.expires_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = ? LIMIT 1`,
		id).Scan(&ident.ID, &ident.Username, &ident.Email, &exp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Identity{}, time.Time{}, auth.ErrSessionNotFound
		}
		return auth.Identity{}, time.Time{}, err
	}
	return ident, exp, nil
}

// Delete destroys a session row.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}

// DeleteExpired removes sessions past their expiry. Called periodically by
// the sweeper goroutine in session-carrier deployments.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
