package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-it/helpdesk/internal/api/http/handlers"
	"github.com/campus-it/helpdesk/internal/auth"
	"github.com/campus-it/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Attachments    *handlers.AttachmentsHandler
	Admin          *handlers.AdminHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every protected route passes through
// the auth middleware and a role gate before reaching its handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register/student", cfg.Auth.RegisterStudent)
	authGroup.Post("/register/technician", cfg.Auth.RegisterTechnician)
	authGroup.Post("/login", cfg.Auth.Login)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protectedAuth.Post("/logout", cfg.Auth.Logout)
	protectedAuth.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", auth.RequireRole(domain.RoleStudent), cfg.Tickets.Create)
	tickets.Get("", auth.RequireAuthenticated(), cfg.Tickets.List)
	tickets.Get("/:id", auth.RequireAuthenticated(), cfg.Tickets.Get)
	tickets.Post("/:id/comments", auth.RequireRole(domain.RoleTechnician), cfg.Tickets.AddComment)
	tickets.Patch("/:id/status", auth.RequireRole(domain.RoleTechnician), cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/close", auth.RequireRole(domain.RoleTechnician), cfg.Tickets.Close)

	app.Post("/attachments", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStudent), cfg.Attachments.Upload)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTechnician))
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id/role", cfg.Admin.EditUserRole)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Post("/users/:id/password/reset", cfg.Admin.ResetUserPassword)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTechnician))
	reports.Get("/tickets/weekly", cfg.Reports.Weekly)
}
