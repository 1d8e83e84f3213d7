package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"user-management-api/internal/config"
	"user-management-api/internal/handler"
	"user-management-api/internal/middleware"
	"user-management-api/internal/model"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Guest  *handler.GuestHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", h.Health.Liveness)
	r.Get("/health", h.Health.Health)

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
		auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
		auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
	})

	// Legacy alias kept for OAuth2 password-flow clients.
	r.Post("/token", h.Auth.Login)

	r.Route("/users", func(users chi.Router) {
		users.Use(authMiddleware.RequireAuth)
		users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/", h.User.List)
		users.Get("/{user_id}", h.User.Get)
		users.Put("/{user_id}", h.User.Update)
		users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Delete("/{user_id}", h.User.Delete)
		users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Post("/{user_id}/unlock", h.User.Unlock)
	})

	r.Route("/guests", func(guests chi.Router) {
		guests.Use(authMiddleware.RequireAuth)
		guests.Post("/", h.Guest.Create)
		guests.Get("/", h.Guest.List)
		guests.Get("/{guest_id}", h.Guest.Get)
		guests.Put("/{guest_id}", h.Guest.Update)
		guests.Delete("/{guest_id}", h.Guest.Delete)
	})

	return r
}
