// Package webhooks handles membership upgrade events pushed by Polka.
package webhooks

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chirpysocial/backend/internal/auth"
	"github.com/chirpysocial/backend/internal/db"
	apperrors "github.com/chirpysocial/backend/internal/errors"
	"github.com/chirpysocial/backend/internal/logger"
	"github.com/google/uuid"
)

const eventUserUpgraded = "user.upgraded"

// UserStore is the slice of the data layer the webhook needs. The upgrade
// reports db.ErrUserNotFound when the id matches no user.
type UserStore interface {
	UpgradeToChirpyRed(ctx context.Context, id uuid.UUID) error
}

type Event struct {
	Event string `json:"event"`
	Data  struct {
		UserID string `json:"userId"`
	} `json:"data"`
}

type Handlers struct {
	users    UserStore
	polkaKey string
	log      *logger.Logger
}

func NewHandlers(users UserStore, polkaKey string) *Handlers {
	return &Handlers{
		users:    users,
		polkaKey: polkaKey,
		log:      logger.Default().WithComponent("webhooks"),
	}
}

// Handle processes POST /api/polka/webhooks. Authentication is a fixed
// shared key in the ApiKey authorization scheme.
func (h *Handlers) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	key, err := auth.GetAPIKey(r.Header)
	if err != nil {
		if errors.Is(err, auth.ErrNoAuthHeader) {
			apperrors.WriteError(w, requestID, apperrors.MissingAuthHeader())
			return
		}
		apperrors.WriteError(w, requestID, apperrors.MalformedAuthHeader())
		return
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.polkaKey)) != 1 {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("access denied"))
		return
	}

	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}
	if event.Event == "" || event.Data.UserID == "" {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("malformed webhook request"))
		return
	}

	// Events other than an upgrade are acknowledged and ignored.
	if event.Event != eventUserUpgraded {
		apperrors.WriteJSON(w, requestID, http.StatusNoContent, nil)
		return
	}

	userID, err := uuid.Parse(event.Data.UserID)
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid user id"))
		return
	}

	if err := h.users.UpgradeToChirpyRed(r.Context(), userID); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			apperrors.WriteError(w, requestID, apperrors.UserNotFound())
			return
		}
		h.log.Error(r.Context(), "failed to upgrade user", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to update membership"))
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusNoContent, nil)
}
