package health

import (
	"context"
	"net/http"
	"time"

	"github.com/chirpysocial/backend/internal/cache"
	"github.com/chirpysocial/backend/internal/db"
	apperrors "github.com/chirpysocial/backend/internal/errors"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

type Response struct {
	Status     Status                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// Checker probes the backing services the API depends on.
type Checker struct {
	db           *db.DB
	cache        *cache.Cache
	checkTimeout time.Duration
}

func NewChecker(database *db.DB, c *cache.Cache) *Checker {
	return &Checker{
		db:           database,
		cache:        c,
		checkTimeout: 2 * time.Second,
	}
}

func (c *Checker) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	components := map[string]ComponentHealth{
		"postgres": c.checkPostgres(ctx),
		"redis":    c.checkRedis(ctx),
	}

	overall := StatusHealthy
	for _, comp := range components {
		if comp.Status != StatusHealthy {
			overall = StatusUnhealthy
			break
		}
	}

	return Response{
		Status:     overall,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}
}

// Handler serves GET /api/healthz.
func (c *Checker) Handler(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	resp := c.Check(r.Context())
	status := http.StatusOK
	if resp.Status != StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	apperrors.WriteJSON(w, requestID, status, resp)
}

func (c *Checker) checkPostgres(ctx context.Context) ComponentHealth {
	if err := c.db.PingContext(ctx); err != nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
	}
	return ComponentHealth{Status: StatusHealthy}
}

func (c *Checker) checkRedis(ctx context.Context) ComponentHealth {
	if err := c.cache.Ping(ctx); err != nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
	}
	return ComponentHealth{Status: StatusHealthy}
}
