package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-service/internal/api/http/handlers"
	"github.com/spec-kit/asset-service/internal/auth"
	"github.com/spec-kit/asset-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Assets         *handlers.AssetsHandler
	Tickets        *handlers.TicketsHandler
	Subscriptions  *handlers.SubscriptionsHandler
	Jobs           *handlers.JobsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
	CronToken      string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireStaff(), cfg.Users.ListUsers)
	users.Get("/:id", auth.RequireStaff(), cfg.Users.GetUser)
	users.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.CreateUser)
	users.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.UpdateUser)

	assets := app.Group("/assets", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	assets.Post("/", cfg.Assets.CreateAsset)
	assets.Get("/", cfg.Assets.ListAssets)
	assets.Get("/:id", cfg.Assets.GetAsset)
	assets.Patch("/:id", cfg.Assets.UpdateAsset)
	assets.Post("/:id/assign", cfg.Assets.AssignAsset)
	assets.Post("/:id/return", cfg.Assets.ReturnAsset)
	assets.Post("/:id/status", cfg.Assets.ChangeStatus)
	assets.Get("/:id/audit", cfg.Assets.ListAuditTrail)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRole())
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/rating", cfg.Tickets.RateTicket)
	tickets.Post("/:id/transition", auth.RequireStaff(), cfg.Tickets.TransitionTicket)
	tickets.Get("/:id/audit", auth.RequireStaff(), cfg.Tickets.ListAuditTrail)

	subscriptions := app.Group("/subscriptions", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	subscriptions.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Subscriptions.CreateSubscription)
	subscriptions.Get("/", cfg.Subscriptions.ListSubscriptions)
	subscriptions.Get("/:id", cfg.Subscriptions.GetSubscription)
	subscriptions.Put("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Subscriptions.UpdateSubscription)
	subscriptions.Post("/:id/allocations", cfg.Subscriptions.AllocateLicense)
	subscriptions.Delete("/:id/allocations/:userId", cfg.Subscriptions.ReleaseLicense)
	subscriptions.Get("/:id/audit", cfg.Subscriptions.ListAuditTrail)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	reports.Get("/dashboard", cfg.Reports.Dashboard)

	jobs := app.Group("/jobs", auth.RequireCronToken(cfg.CronToken))
	jobs.Post("/subscriptions/refresh-status", cfg.Jobs.RefreshSubscriptionStatuses)
	jobs.Post("/subscriptions/send-reminders", cfg.Jobs.SendExpiryReminders)
	jobs.Post("/tickets/auto-close", cfg.Jobs.AutoCloseResolved)
	jobs.Post("/tickets/escalate", cfg.Jobs.EscalateOverdue)
}
