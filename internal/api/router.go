package api

import (
	"net/http"

	"github.com/chirpysocial/backend/internal/auth"
	"github.com/chirpysocial/backend/internal/chirps"
	"github.com/chirpysocial/backend/internal/health"
	"github.com/chirpysocial/backend/internal/metrics"
	"github.com/chirpysocial/backend/internal/webhooks"
)

type Router struct {
	mux             *http.ServeMux
	authHandlers    *auth.Handlers
	authService     *auth.Service
	chirpHandlers   *chirps.Handlers
	webhookHandlers *webhooks.Handlers
	adminHandlers   *AdminHandlers
	healthChecker   *health.Checker
	hits            *metrics.Hits
	appDir          string
}

func NewRouter(
	authHandlers *auth.Handlers,
	authService *auth.Service,
	chirpHandlers *chirps.Handlers,
	webhookHandlers *webhooks.Handlers,
	adminHandlers *AdminHandlers,
	healthChecker *health.Checker,
	hits *metrics.Hits,
	appDir string,
) *Router {
	r := &Router{
		mux:             http.NewServeMux(),
		authHandlers:    authHandlers,
		authService:     authService,
		chirpHandlers:   chirpHandlers,
		webhookHandlers: webhookHandlers,
		adminHandlers:   adminHandlers,
		healthChecker:   healthChecker,
		hits:            hits,
		appDir:          appDir,
	}
	r.setupRoutes()
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) setupRoutes() {
	// Static app, counted by the fileserver hit middleware
	fileserver := http.StripPrefix("/app", http.FileServer(http.Dir(r.appDir)))
	r.mux.Handle("/app/", r.hits.Middleware(fileserver))

	// Health check
	r.mux.HandleFunc("GET /api/healthz", r.healthChecker.Handler)

	// Session routes (no auth required)
	r.mux.HandleFunc("POST /api/users", r.authHandlers.CreateUser)
	r.mux.HandleFunc("POST /api/login", r.authHandlers.Login)
	r.mux.HandleFunc("POST /api/refresh", r.authHandlers.Refresh)
	r.mux.HandleFunc("POST /api/revoke", r.authHandlers.Revoke)

	// User routes (auth required)
	r.mux.HandleFunc("PUT /api/users", r.withAuth(r.authHandlers.UpdateUser))

	// Chirp routes
	r.mux.HandleFunc("POST /api/chirps", r.withAuth(r.chirpHandlers.Create))
	r.mux.HandleFunc("GET /api/chirps", r.chirpHandlers.List)
	r.mux.HandleFunc("GET /api/chirps/{chirpID}", r.chirpHandlers.Get)
	r.mux.HandleFunc("DELETE /api/chirps/{chirpID}", r.withAuth(r.chirpHandlers.Delete))

	// Polka webhook (ApiKey auth inside the handler)
	r.mux.HandleFunc("POST /api/polka/webhooks", r.webhookHandlers.Handle)

	// Admin
	r.mux.HandleFunc("GET /admin/metrics", r.adminHandlers.Metrics)
	r.mux.HandleFunc("POST /admin/reset", r.adminHandlers.Reset)
}

func (r *Router) withAuth(next http.HandlerFunc) http.HandlerFunc {
	middleware := auth.Middleware(r.authService)
	return func(w http.ResponseWriter, req *http.Request) {
		middleware(http.HandlerFunc(next)).ServeHTTP(w, req)
	}
}
