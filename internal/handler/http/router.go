package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusconfess/backend/internal/service"
	"github.com/campusconfess/backend/pkg/health"
	"github.com/campusconfess/backend/pkg/middleware"
)

// NewRouter creates a chi router with all backend routes registered.
func NewRouter(
	accountService *service.AccountService,
	postService *service.PostService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("confess-backend"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("confess-backend"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(accountService)
	postHandler := NewPostHandler(postService)

	// Auth endpoints (public). Renew authenticates with the update token
	// itself, so it stays outside SessionAuth.
	r.Route("/api/v1/auth", func(r chi.Router) {
		// Renew carries no body, so it skips the content-type check.
		r.Post("/renew", authHandler.Renew)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})
	})

	// Account endpoints (session required)
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Use(SessionAuth(accountService))

		r.Get("/me", authHandler.Me)
	})

	// Confession feed (session required)
	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Use(SessionAuth(accountService))

		r.Get("/", postHandler.List)
		r.Get("/nearby", postHandler.ListNearby)
		r.Get("/{id}", postHandler.Get)
		r.Get("/{id}/comments", postHandler.ListComments)
		r.Delete("/{id}", postHandler.Delete)

		// Vote bodies are optional, so these skip the content-type check.
		r.Post("/{id}/vote", postHandler.Vote)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/", postHandler.Create)
			r.Patch("/{id}", postHandler.Update)
			r.Post("/{id}/comments", postHandler.CreateComment)
		})
	})

	r.Route("/api/v1/comments", func(r chi.Router) {
		r.Use(SessionAuth(accountService))

		r.Post("/{id}/vote", postHandler.VoteComment)
	})

	return r
}
