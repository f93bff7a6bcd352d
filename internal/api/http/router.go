package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/office-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/office-helpdesk/internal/auth"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Users          *handlers.UsersHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
	Sessions       auth.SessionView
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/logout", cfg.Auth.Logout)
	protected.Get("/auth/me", cfg.Auth.Me)

	protected.Get("/notifications", cfg.Auth.Notifications)
	protected.Post("/notifications/read-all", cfg.Auth.MarkAllNotificationsRead)
	protected.Post("/notifications/:id/read", cfg.Auth.MarkNotificationRead)

	protected.Get("/settings", cfg.Auth.Settings)
	protected.Put("/settings", cfg.Auth.UpdateSettings)

	require := func(perm string) fiber.Handler { return auth.RequirePermission(cfg.Sessions, perm) }
	canEdit := auth.RequireAnyPermission(cfg.Sessions, domain.PermEditTicket, domain.PermEditOwnTicket)

	tickets := protected.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", require(domain.PermCreateTicket), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", canEdit, cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", require(domain.PermDeleteTicket), cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/upvote", cfg.Tickets.Upvote)
	tickets.Put("/:id/status", canEdit, cfg.Tickets.ChangeStatus)
	tickets.Put("/:id/priority", canEdit, cfg.Tickets.ChangePriority)
	tickets.Put("/:id/severity", canEdit, cfg.Tickets.ChangeSeverity)
	tickets.Put("/:id/assignee", require(domain.PermAssignTicket), cfg.Tickets.Assign)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Delete("/:id/attachments/:attachmentId", canEdit, cfg.Tickets.RemoveAttachment)
	tickets.Post("/:id/watchers", cfg.Tickets.AddWatcher)
	tickets.Delete("/:id/watchers", cfg.Tickets.RemoveWatcher)

	categories := protected.Group("/categories")
	categories.Get("/", cfg.Categories.ListCategories)
	categories.Post("/", require(domain.PermManageCategories), cfg.Categories.CreateCategory)
	categories.Put("/:id", require(domain.PermManageCategories), cfg.Categories.UpdateCategory)
	categories.Delete("/:id", require(domain.PermManageCategories), cfg.Categories.DeleteCategory)

	users := protected.Group("/users")
	users.Get("/", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Post("/", require(domain.PermManageUsers), cfg.Users.CreateUser)
	users.Put("/:id", require(domain.PermManageUsers), cfg.Users.UpdateUser)
	users.Delete("/:id", require(domain.PermManageUsers), cfg.Users.DeleteUser)
	users.Post("/:id/toggle-status", require(domain.PermManageUsers), cfg.Users.ToggleStatus)

	protected.Get("/stats/dashboard", require(domain.PermViewDashboard), cfg.Stats.Dashboard)
}
