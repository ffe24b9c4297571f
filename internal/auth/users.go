package auth

import (
	"context"
	"time"

	"github.com/chirpysocial/backend/internal/db"
	"github.com/google/uuid"
)

// CreateUser hashes the password and inserts a new user. A duplicate email
// surfaces as db.ErrEmailExists.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*db.User, error) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &db.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser replaces the caller's email and password. The new password goes
// through the same hasher as registration.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, email, password string) (*db.User, error) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.users.UpdateCredentials(ctx, id, email, hashedPassword)
}
