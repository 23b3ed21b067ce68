package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Admin   *handlers.AdminHandler
	Gate    *auth.RequestGate
}

// RegisterRoutes wires HTTP routes. The gate runs in front of everything;
// its own allowlist exempts the register/login endpoints.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	api := app.Group("/api")
	api.Get("/profile", auth.RequireIdentity(), cfg.Profile.Get)

	admin := api.Group("/admin", auth.RequireAuthority("accounts:approve"))
	admin.Get("/accounts", cfg.Admin.ListAccounts)
	admin.Post("/accounts/:id/approval", cfg.Admin.SetApproval)
}
