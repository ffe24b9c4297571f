package api

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/chirpysocial/backend/internal/errors"
	"github.com/chirpysocial/backend/internal/logger"
	"github.com/chirpysocial/backend/internal/metrics"
)

const metricsPage = `<html>
  <body>
    <h1>Welcome, Chirpy Admin</h1>
    <p>Chirpy has been visited %d times!</p>
  </body>
</html>
`

// ResetStore is the destructive part of the data layer the dev-only reset
// endpoint touches. Deleting users cascades to chirps and refresh tokens.
type ResetStore interface {
	DeleteAll(ctx context.Context) error
}

type AdminHandlers struct {
	hits     *metrics.Hits
	users    ResetStore
	platform string
	log      *logger.Logger
}

func NewAdminHandlers(hits *metrics.Hits, users ResetStore, platform string) *AdminHandlers {
	return &AdminHandlers{
		hits:     hits,
		users:    users,
		platform: platform,
		log:      logger.Default().WithComponent("admin"),
	}
}

// Metrics serves GET /admin/metrics as an HTML page.
func (h *AdminHandlers) Metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, metricsPage, h.hits.Value(r.Context()))
}

// Reset serves POST /admin/reset. Outside the dev platform it is forbidden;
// in dev it zeroes the hit counter and wipes all users.
func (h *AdminHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	if h.platform != "dev" {
		apperrors.WriteError(w, requestID, apperrors.Forbidden("reset is only allowed on the dev platform"))
		return
	}

	if err := h.hits.Reset(r.Context()); err != nil {
		h.log.Error(r.Context(), "failed to reset hit counter", err)
		apperrors.WriteError(w, requestID, apperrors.InternalError("failed to reset metrics"))
		return
	}

	if err := h.users.DeleteAll(r.Context()); err != nil {
		h.log.Error(r.Context(), "failed to delete users", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to reset users"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
