package chirps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/chirpysocial/backend/internal/auth"
	"github.com/chirpysocial/backend/internal/cache"
	"github.com/chirpysocial/backend/internal/db"
	apperrors "github.com/chirpysocial/backend/internal/errors"
	"github.com/chirpysocial/backend/internal/logger"
	"github.com/google/uuid"
)

const (
	listCacheKey = "chirpy:chirps:all"
	listCacheTTL = 30 * time.Second
)

// ChirpStore is the slice of the data layer the chirp endpoints need.
type ChirpStore interface {
	Create(ctx context.Context, chirp *db.Chirp) error
	GetAll(ctx context.Context) ([]db.Chirp, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db.Chirp, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateRequest struct {
	Body string `json:"body"`
}

type ChirpResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Body      string    `json:"body"`
	UserID    string    `json:"userId"`
}

type Handlers struct {
	store ChirpStore
	cache *cache.Cache
	log   *logger.Logger
}

// NewHandlers builds the chirp endpoint handlers. cache may be nil; the list
// endpoint then always hits the database.
func NewHandlers(store ChirpStore, c *cache.Cache) *Handlers {
	return &Handlers{
		store: store,
		cache: c,
		log:   logger.Default().WithComponent("chirps"),
	}
}

// Create handles POST /api/chirps (bearer auth required).
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("not authenticated"))
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}

	cleaned, err := ValidateBody(req.Body)
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.ValidationError(err.Error()))
		return
	}

	now := time.Now()
	chirp := &db.Chirp{
		ID:        uuid.New(),
		Body:      cleaned,
		UserID:    userCtx.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.Create(r.Context(), chirp); err != nil {
		h.log.Error(r.Context(), "failed to create chirp", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to create chirp"))
		return
	}

	h.invalidateList(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusCreated, chirpResponse(chirp))
}

// List handles GET /api/chirps, ascending by creation time.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	if h.cache != nil {
		if cached, ok := h.cache.Get(r.Context(), listCacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	all, err := h.store.GetAll(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "failed to list chirps", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to list chirps"))
		return
	}

	resp := make([]ChirpResponse, 0, len(all))
	for i := range all {
		resp = append(resp, chirpResponse(&all[i]))
	}

	if h.cache != nil {
		if body, err := json.Marshal(resp); err == nil {
			h.cache.Set(r.Context(), listCacheKey, string(body), listCacheTTL)
		}
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, resp)
}

// Get handles GET /api/chirps/{chirpID}.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	chirpID, err := uuid.Parse(r.PathValue("chirpID"))
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid chirp id"))
		return
	}

	chirp, err := h.store.GetByID(r.Context(), chirpID)
	if err != nil {
		if errors.Is(err, db.ErrChirpNotFound) {
			apperrors.WriteError(w, requestID, apperrors.ChirpNotFound())
			return
		}
		h.log.Error(r.Context(), "failed to get chirp", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to get chirp"))
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, chirpResponse(chirp))
}

// Delete handles DELETE /api/chirps/{chirpID}. Only the author may delete;
// anyone else gets 403, an unknown chirp 404.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("not authenticated"))
		return
	}

	chirpID, err := uuid.Parse(r.PathValue("chirpID"))
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid chirp id"))
		return
	}

	chirp, err := h.store.GetByID(r.Context(), chirpID)
	if err != nil {
		if errors.Is(err, db.ErrChirpNotFound) {
			apperrors.WriteError(w, requestID, apperrors.ChirpNotFound())
			return
		}
		h.log.Error(r.Context(), "failed to get chirp", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to get chirp"))
		return
	}

	if chirp.UserID != userCtx.UserID {
		apperrors.WriteError(w, requestID, apperrors.Forbidden("you can only delete your own chirps"))
		return
	}

	if err := h.store.Delete(r.Context(), chirpID); err != nil {
		if errors.Is(err, db.ErrChirpNotFound) {
			apperrors.WriteError(w, requestID, apperrors.ChirpNotFound())
			return
		}
		h.log.Error(r.Context(), "failed to delete chirp", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to delete chirp"))
		return
	}

	h.invalidateList(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusNoContent, nil)
}

func (h *Handlers) invalidateList(ctx context.Context) {
	if h.cache != nil {
		h.cache.Delete(ctx, listCacheKey)
	}
}

func chirpResponse(chirp *db.Chirp) ChirpResponse {
	return ChirpResponse{
		ID:        chirp.ID.String(),
		CreatedAt: chirp.CreatedAt,
		UpdatedAt: chirp.UpdatedAt,
		Body:      chirp.Body,
		UserID:    chirp.UserID.String(),
	}
}
