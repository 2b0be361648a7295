package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash' column).
type TokenRepo struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewTokenRepo(db *sql.DB, timeout time.Duration) *TokenRepo {
	return &TokenRepo{DB: db, Timeout: timeout}
}

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, profileID, tokenHash string, exp time.Time) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (profile_id, token_hash, expires_at) VALUES (?,?,?)",
		profileID, tokenHash, exp)
	return translate(err)
}

// ValidateRefresh returns the profile id if a non-revoked, non-expired
// token exists, ErrNotFound otherwise.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	var (
		profileID string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT profile_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&profileID, &expiresAt, &revokedAt)
	if err != nil {
		return "", translate(err)
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return "", ErrNotFound
	}
	return profileID, nil
}

// RevokeByHash marks a token as revoked.  Revoking twice is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP(3) WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForProfile revokes all of a profile's active tokens.
func (r *TokenRepo) RevokeAllForProfile(ctx context.Context, profileID string) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP(3) WHERE profile_id=? AND revoked_at IS NULL",
		profileID)
	return err
}
