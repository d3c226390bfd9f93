package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Setup          *handlers.SetupHandler
	Complaints     *handlers.ComplaintsHandler
	Categories     *handlers.CategoriesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/setup/first-admin", cfg.Setup.CreateFirstAdmin)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	protected.Get("/categories", cfg.Categories.List)

	complaints := protected.Group("/complaints")
	complaints.Get("", cfg.Complaints.List)
	complaints.Post("", auth.RequireRole(domain.RoleStudent), cfg.Complaints.Create)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Patch("/:id/status", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Complaints.UpdateStatus)
	complaints.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.Assign)

	admin := protected.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/analytics", cfg.Admin.Analytics)
	admin.Get("/staff", cfg.Admin.ListStaff)
	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Get("/metrics", cfg.Admin.Metrics)
}
