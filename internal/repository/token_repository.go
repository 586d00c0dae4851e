package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// ErrTokenNotFound is returned when a refresh token is absent, expired
// or revoked.  Callers treat all three the same: the session is gone.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenRepo stores refresh tokens.  Tokens are persisted as SHA-256
// hashes; the raw value only ever lives in the client's cookie.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// Store inserts a refresh token hash for a user.
func (r *TokenRepo) Store(ctx context.Context, t *model.RefreshToken) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.UserID, t.TokenHash, t.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Lookup finds a live token by hash.  Expired or revoked tokens are
// reported as ErrTokenNotFound.
func (r *TokenRepo) Lookup(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	const q = `SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
	           FROM refresh_tokens
	           WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`
	var t model.RefreshToken
	var revoked sql.NullTime
	err := r.db.QueryRowContext(ctx, q, tokenHash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	if revoked.Valid {
		v := revoked.Time
		t.RevokedAt = &v
	}
	return &t, nil
}

// Revoke marks a single token unusable.  Revoking an unknown or already
// revoked token is not an error; logout is idempotent.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`,
		tokenHash)
	return err
}

// RevokeAllForUser invalidates every live token a user holds, used when
// rotating credentials.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE user_id = ? AND revoked_at IS NULL`,
		userID)
	return err
}

// DeleteExpired purges tokens past their expiry, returning the number
// removed.  Run periodically from the maintenance goroutine.
func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < UTC_TIMESTAMP()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
