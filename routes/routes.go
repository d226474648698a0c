package routes

import (
	"net/http"
	"time"

	"github.com/cardfolio/backend/app"
	appmw "github.com/cardfolio/backend/middleware"
	"github.com/cardfolio/backend/services/ratelimit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Per-route admission limits. Limits are per client address per window and
// scaled by the environment multiplier outside production.
var (
	healthLimit         = ratelimit.Config{Limit: 10, Window: time.Minute}
	cardReadLimit       = ratelimit.Config{Limit: 30, Window: time.Minute}
	cardCreateLimit     = ratelimit.Config{Limit: 5, Window: time.Minute}
	cardUpdateLimit     = ratelimit.Config{Limit: 10, Window: time.Minute}
	cardVisibilityLimit = ratelimit.Config{Limit: 20, Window: time.Minute}
	cardDeleteLimit     = ratelimit.Config{Limit: 30, Window: time.Minute}
	userAddLimit        = ratelimit.Config{Limit: 10, Window: time.Hour}
	userLogoutLimit     = ratelimit.Config{Limit: 20, Window: time.Minute}
)

// SetupRoutes configures all application routes and middleware.
//
// Every route runs the shared stack (request id, client address resolution,
// logging, recovery, CORS) and then its own admission stages in order:
// internal secret where required, then the route's rate limit, then token
// verification. A stage that rejects short-circuits the rest.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	rl := deps.RateLimitMiddleware

	// Core middleware
	r.Use(appmw.RequestID)
	r.Use(appmw.ResolveClientIP(deps.Config.RateLimit.TrustedProxyHops))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-internal-secret"},
		ExposedHeaders:   []string{"X-Request-ID", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Group(func(r chi.Router) {
		r.Use(rl.Limit("health", healthLimit))
		r.Get("/healthz", deps.HealthHandler.HandleHealth)
		r.Get("/healthz/ready", deps.HealthHandler.HandleReadiness)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			// Public reads
			r.With(rl.Limit("cards_read", cardReadLimit)).
				Get("/", deps.CardHandler.HandleList)
			r.With(rl.Limit("cards_read", cardReadLimit)).
				Get("/{id}", deps.CardHandler.HandleGet)

			// Writes require a live token
			r.With(rl.Limit("cards_create", cardCreateLimit), deps.AuthMiddleware.RequireToken).
				Post("/create", deps.CardHandler.HandleCreate)
			r.With(rl.Limit("cards_update", cardUpdateLimit), deps.AuthMiddleware.RequireToken).
				Put("/update/{id}", deps.CardHandler.HandleUpdate)
			r.With(rl.Limit("cards_visibility", cardVisibilityLimit), deps.AuthMiddleware.RequireToken).
				Put("/update/visibility/{id}", deps.CardHandler.HandleUpdateVisibility)
			r.With(rl.Limit("cards_delete", cardDeleteLimit), deps.AuthMiddleware.RequireToken).
				Delete("/delete/{id}", deps.CardHandler.HandleDelete)
		})

		r.Route("/users", func(r chi.Router) {
			// Registration is service-to-service only
			r.With(deps.InternalAuth.RequireSecret, rl.Limit("users_add", userAddLimit)).
				Post("/add", deps.UserHandler.HandleRegister)
			r.With(rl.Limit("users_logout", userLogoutLimit), deps.AuthMiddleware.RequireToken).
				Post("/logout", deps.UserHandler.HandleLogout)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
