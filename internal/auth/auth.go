package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chirpysocial/backend/internal/db"
	"github.com/google/uuid"
)

// tokenCreateAttempts bounds the retry loop on a refresh-token key collision.
// With 256 bits of entropy a single retry should never be observed in practice.
const tokenCreateAttempts = 3

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of the data layer the session flows need.
type UserStore interface {
	Create(ctx context.Context, user *db.User) error
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	UpdateCredentials(ctx context.Context, id uuid.UUID, email, hashedPassword string) (*db.User, error)
}

// TokenStore persists refresh tokens. GetActive filters revoked and expired
// rows itself, reporting them identically to absent ones.
type TokenStore interface {
	Create(ctx context.Context, token *db.RefreshToken) error
	GetActive(ctx context.Context, token string) (*db.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

type Service struct {
	users      UserStore
	tokens     TokenStore
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(users UserStore, tokens TokenStore, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Session is what a successful login hands back: the principal plus one
// access token and one freshly persisted refresh token.
type Session struct {
	User         *db.User
	AccessToken  string
	RefreshToken string
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password fail identically with ErrInvalidCredentials so the endpoint cannot
// be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := CheckPasswordHash(user.HashedPassword, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := MakeJWT(user.ID, s.secret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges an active refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until it expires or is
// revoked. Absent, expired and revoked tokens all fail the same way.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	stored, err := s.tokens.GetActive(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, db.ErrTokenNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return "", err
	}

	return MakeJWT(user.ID, s.secret, s.accessTTL)
}

// Revoke permanently disables a refresh token. Revoking twice, or revoking a
// token that never existed, succeeds; logout must not fail on a double call.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// Authorize resolves the bearer access token on a request to a user ID.
// Every protected endpoint goes through here.
func (s *Service) Authorize(h http.Header) (uuid.UUID, error) {
	tokenString, err := GetBearerToken(h)
	if err != nil {
		return uuid.Nil, err
	}
	return ValidateJWT(tokenString, s.secret)
}

func (s *Service) issueRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	var lastErr error
	for range tokenCreateAttempts {
		tokenString, err := MakeRefreshToken()
		if err != nil {
			return "", err
		}

		now := s.now()
		err = s.tokens.Create(ctx, &db.RefreshToken{
			Token:     tokenString,
			UserID:    userID,
			ExpiresAt: now.Add(s.refreshTTL),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err == nil {
			return tokenString, nil
		}
		if !errors.Is(err, db.ErrTokenExists) {
			return "", err
		}
		// Collision: generate a fresh token and try again.
		lastErr = err
	}
	return "", lastErr
}
