package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secure-gateway/internal/api/http/handlers"
	"github.com/spec-kit/secure-gateway/internal/auth"
	"github.com/spec-kit/secure-gateway/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Accounts     *handlers.AccountsHandler
	LoginLimiter *ratelimit.Limiter
}

// RegisterRoutes wires HTTP routes. Login gets a stricter per-IP limit on
// top of the global one.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Check)

	loginLimit := ratelimit.Middleware(cfg.LoginLimiter, ratelimit.ByIPAndPath, nil)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", loginLimit, cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	accounts := app.Group("/accounts", auth.RequireAuth())
	accounts.Post("/", cfg.Accounts.Create)
	accounts.Get("/me", cfg.Accounts.Me)
}
