package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errors.New("refresh token not found")
var ErrTokenExists = errors.New("refresh token already exists")

type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt sql.NullTime
}

type TokenRepository struct {
	db *DB
}

func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		token.Token, token.UserID, token.ExpiresAt, token.CreatedAt, token.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTokenExists
		}
		return err
	}

	return nil
}

// GetActive returns the token row only while it is usable: not revoked and not
// past its expiry. Revoked, expired and absent tokens all come back as
// ErrTokenNotFound so a caller cannot tell whether a token ever existed.
func (r *TokenRepository) GetActive(ctx context.Context, token string) (*RefreshToken, error) {
	query := `
		SELECT token, user_id, expires_at, created_at, updated_at, revoked_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`

	rt := &RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt, &rt.UpdatedAt, &rt.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	return rt, nil
}

// Revoke marks the token unusable. The single conditional UPDATE makes it
// safe under concurrent calls, and revoking an already-revoked or unknown
// token is a no-op success so logout flows never fail on a double revoke.
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW(), updated_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, token)
	return err
}
