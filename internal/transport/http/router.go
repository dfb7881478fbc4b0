package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"skillswap/internal/handler"
	"skillswap/internal/httputil"
	authmw "skillswap/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	SkillHandler        *handler.SkillHandler
	SwapHandler         *handler.SwapHandler
	NotificationHandler *handler.NotificationHandler
	AdminHandler        *handler.AdminHandler
	UserGetter          authmw.UserGetter
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Profile views work without a token; the viewer id, when present,
	// decides whether a private profile is visible.
	r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/users/{id}", cfg.UserHandler.GetProfile)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)
		r.Patch("/me", cfg.UserHandler.UpdateProfile)
		r.Put("/me/photo", cfg.UserHandler.UpdatePhoto)
		r.Get("/me/skills", cfg.SkillHandler.ListMine)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Member discovery
		r.Get("/users", cfg.UserHandler.Browse)
		r.Get("/users/search", cfg.UserHandler.Search)

		// Skill endpoints
		r.Post("/skills", cfg.SkillHandler.Create)
		r.Get("/skills/search", cfg.SkillHandler.Search)
		r.Put("/skills/{id}", cfg.SkillHandler.Update)
		r.Delete("/skills/{id}", cfg.SkillHandler.Delete)

		// Swap request lifecycle
		r.Route("/swaps", func(r chi.Router) {
			r.Post("/", cfg.SwapHandler.Create)
			r.Get("/sent", cfg.SwapHandler.ListSent)
			r.Get("/received", cfg.SwapHandler.ListReceived)
			r.Get("/{id}", cfg.SwapHandler.Get)
			r.Post("/{id}/accept", cfg.SwapHandler.Accept)
			r.Post("/{id}/reject", cfg.SwapHandler.Reject)
			r.Post("/{id}/complete", cfg.SwapHandler.Complete)
			r.Delete("/{id}", cfg.SwapHandler.Cancel)
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Post("/read", cfg.NotificationHandler.MarkRead)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
		})

		// Read-only admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.AdminMiddleware(cfg.UserGetter))
			r.Get("/stats", cfg.AdminHandler.Stats)
			r.Get("/users", cfg.AdminHandler.ListUsers)
			r.Get("/skills", cfg.AdminHandler.ListSkills)
			r.Get("/swaps", cfg.AdminHandler.ListSwaps)
		})
	})

	return r
}
