// Package router sets up all HTTP routes and middleware chains for the
// blog API. Routes are organized into public, optionally authenticated,
// and authenticated groups under the /api/v1 prefix.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/handlers"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth       *handlers.Auth
	Users      *handlers.Users
	Categories *handlers.Categories
	Posts      *handlers.Posts
	Tags       *handlers.Tags
	AI         *handlers.AI
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(authn *middleware.Authenticator, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	// Login attempts are rate limited per client IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(authn.Authenticate)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
				r.Put("/me", h.Auth.UpdateMe)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
				r.Post("/2fa/activate", h.Auth.TwoFAActivate)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authn.Authenticate)
			r.Get("/", h.Users.List)
			r.Get("/{username}", h.Users.Get)
			r.Put("/{username}", h.Users.Update)
			r.Delete("/{username}", h.Users.Delete)
			r.Put("/{username}/activate", h.Users.Activate)
			r.Put("/{username}/deactivate", h.Users.Deactivate)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Get("/{slug}", h.Categories.Get)

			r.Group(func(r chi.Router) {
				r.Use(authn.Authenticate)
				r.Post("/", h.Categories.Create)
				r.Put("/{slug}", h.Categories.Update)
				r.Delete("/{slug}", h.Categories.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			// Reads are public but widen for authenticated staff.
			r.With(authn.OptionalAuthenticate).Get("/", h.Posts.List)
			r.With(authn.OptionalAuthenticate).Get("/{slug}", h.Posts.Get)
			r.Post("/{slug}/share", h.Posts.Share)

			r.Group(func(r chi.Router) {
				r.Use(authn.Authenticate)
				r.Post("/", h.Posts.Create)
				r.Put("/{slug}", h.Posts.Update)
				r.Delete("/{slug}", h.Posts.Delete)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.Tags.List)
			r.Get("/{slug}", h.Tags.Get)

			r.Group(func(r chi.Router) {
				r.Use(authn.Authenticate)
				r.Post("/", h.Tags.Create)
				r.Put("/{slug}", h.Tags.Update)
				r.Delete("/{slug}", h.Tags.Delete)
			})
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(authn.Authenticate)
			r.Post("/outline", h.AI.Outline)
			r.Post("/meta-description", h.AI.MetaDescription)
			r.Post("/improvements", h.AI.Improvements)
		})
	})

	return r
}

// healthHandler responds to health checks from load balancers and
// container orchestrators.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
