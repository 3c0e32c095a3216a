package repository

import (
    "context"
    "database/sql"
    "time"
)

// TokenRepo manages rows in refresh_tokens.  Only SHA-256 hashes of the
// raw tokens ever reach this layer; hashing happens in utils before the
// repository is called.
type TokenRepo struct{ DB *sql.DB }

// NewTokenRepo returns a new TokenRepo bound to the provided database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a freshly issued refresh token hash with its expiry.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
        userID, tokenHash, exp.UTC())
    return err
}

// ValidateRefresh resolves a token hash to its owning user id.  Revoked
// and expired rows fail with sql.ErrNoRows, which callers treat the same
// as an unknown token.  The expiry check runs in SQL so the database
// clock stays the single source of truth, the same rule the seat-lock
// queries follow.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
    var userID uint64
    err := r.DB.QueryRowContext(ctx,
        `SELECT user_id FROM refresh_tokens
          WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()
          LIMIT 1`,
        tokenHash).Scan(&userID)
    if err != nil {
        return 0, err
    }
    return userID, nil
}

// RevokeByHash marks a single token revoked.  Already revoked rows are
// left untouched so the original revocation time survives.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
          WHERE token_hash = ? AND revoked_at IS NULL`,
        tokenHash)
    return err
}

// RevokeAllForUser revokes every active token a user holds.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
          WHERE user_id = ? AND revoked_at IS NULL`,
        userID)
    return err
}
