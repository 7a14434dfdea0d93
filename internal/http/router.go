package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finsim/ofxserve/internal/config"
	"github.com/finsim/ofxserve/internal/http/features/admin"
	ofxfeature "github.com/finsim/ofxserve/internal/http/features/ofx"
	"github.com/finsim/ofxserve/internal/http/middleware"
	"github.com/finsim/ofxserve/internal/httputil"
	"github.com/finsim/ofxserve/pkg/server"
)

// OFX documents are small; anything bigger than this is not a client.
const maxRequestBodySize = 1 << 20

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	Server          *server.Server
	PathPrefix      string
	RateLimitConfig config.RateLimitConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.RequestSizeLimit(maxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The protocol endpoint is method-agnostic: real OFX clients POST,
	// but nothing in the wire contract depends on the method.
	ofxHandler := ofxfeature.NewHandler(cfg.Logger, cfg.Server)
	r.HandleFunc(cfg.PathPrefix, ofxHandler.Endpoint)

	// Configuration surface
	rateLimiter := middleware.CreateRateLimiter(cfg.RateLimitConfig, cfg.Logger)
	adminHandler := admin.NewHandler(cfg.Logger, cfg.Server)
	r.Route("/admin", func(r chi.Router) {
		r.Use(rateLimiter)
		r.Get("/state", adminHandler.GetState)
		r.Put("/credentials", adminHandler.UpdateCredentials)
		r.Put("/authtoken", adminHandler.UpdateAuthToken)
		r.Put("/challenges", adminHandler.UpdateChallenges)
		r.Post("/challenges/standard", adminHandler.InstallStandardChallenges)
		r.Delete("/challenges", adminHandler.ClearChallenges)
		r.Put("/changepassword", adminHandler.UpdateChangePassword)
		r.Put("/delay", adminHandler.UpdateDelay)
	})

	return r
}
