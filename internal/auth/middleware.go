package auth

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/chirpysocial/backend/internal/errors"
	"github.com/google/uuid"
)

type contextKey string

const UserContextKey contextKey = "user"

type UserContext struct {
	UserID uuid.UUID
}

// Middleware authorizes the request's bearer access token and stores the
// resolved user ID in the request context.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := apperrors.GetRequestID(r.Context())

			userID, err := svc.Authorize(r.Header)
			if err != nil {
				switch {
				case errors.Is(err, ErrNoAuthHeader):
					apperrors.WriteError(w, requestID, apperrors.MissingAuthHeader())
				case errors.Is(err, ErrMalformedAuthHeader):
					apperrors.WriteError(w, requestID, apperrors.MalformedAuthHeader())
				case errors.Is(err, ErrTokenExpired):
					apperrors.WriteError(w, requestID, apperrors.TokenExpired(err.Error()))
				default:
					apperrors.WriteError(w, requestID, apperrors.InvalidToken("invalid access token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, &UserContext{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserFromContext(ctx context.Context) *UserContext {
	user, ok := ctx.Value(UserContextKey).(*UserContext)
	if !ok {
		return nil
	}
	return user
}
