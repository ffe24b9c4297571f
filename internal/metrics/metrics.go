// Package metrics tracks the fileserver hit counter shown on the admin page.
// The count lives in Redis so it survives process restarts.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/chirpysocial/backend/internal/cache"
	"github.com/chirpysocial/backend/internal/logger"
)

const hitsKey = "chirpy:fileserver_hits"

type Hits struct {
	cache *cache.Cache
	log   *logger.Logger
}

func NewHits(c *cache.Cache) *Hits {
	return &Hits{
		cache: c,
		log:   logger.Default().WithComponent("metrics"),
	}
}

// Middleware counts every request passing through it. A counter failure is
// logged and the request proceeds; metrics never block serving.
func (h *Hits) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.cache.Incr(r.Context(), hitsKey); err != nil {
			h.log.Warn(r.Context(), "hit counter increment failed", map[string]any{"error": err.Error()})
		}
		next.ServeHTTP(w, r)
	})
}

// Value returns the current hit count, zero when unset.
func (h *Hits) Value(ctx context.Context) int64 {
	val, ok := h.cache.Get(ctx, hitsKey)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Reset zeroes the counter.
func (h *Hits) Reset(ctx context.Context) error {
	return h.cache.Delete(ctx, hitsKey)
}
