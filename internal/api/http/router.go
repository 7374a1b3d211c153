package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigap-ti/sigap/internal/api/http/handlers"
	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	WorkOrders     *handlers.WorkOrdersHandler
	ZoomTickets    *handlers.ZoomTicketsHandler
	Users          *handlers.UsersHandler
	Assets         *handlers.AssetsHandler
	Visitors       *handlers.VisitorsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/visitors", cfg.Visitors.RecordVisit)
	app.Get("/visitors", cfg.Visitors.Total)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	session.Get("/me", cfg.Auth.Me)
	session.Post("/switch-role", cfg.Auth.SwitchRole)
	session.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/approve", auth.RequireRole(domain.RoleAdminLayanan), cfg.Tickets.Approve)
	tickets.Post("/:id/reject", auth.RequireRole(domain.RoleAdminLayanan), cfg.Tickets.Reject)
	tickets.Patch("/:id/status", auth.RequireRole(domain.RoleTeknisi), cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/diagnosis", auth.RequireRole(domain.RoleTeknisi), cfg.Tickets.Diagnose)
	tickets.Post("/:id/complete", auth.RequireRole(domain.RoleTeknisi), cfg.Tickets.MarkComplete)
	tickets.Post("/:id/close", cfg.Tickets.Close)
	tickets.Post("/:id/work-orders", auth.RequireRole(domain.RoleTeknisi), cfg.WorkOrders.Create)

	workOrders := app.Group("/work-orders", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdminPenyedia, domain.RoleAdminLayanan, domain.RoleSuperAdmin))
	workOrders.Get("", cfg.WorkOrders.List)
	workOrders.Get("/:id", cfg.WorkOrders.Get)
	workOrders.Patch("/:id/status", auth.RequireRole(domain.RoleAdminPenyedia), cfg.WorkOrders.UpdateStatus)

	zoom := app.Group("/zoom-tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	zoom.Post("", cfg.ZoomTickets.Create)
	zoom.Get("", cfg.ZoomTickets.List)
	zoom.Get("/schedule", cfg.ZoomTickets.DailySchedule)
	zoom.Get("/:id", cfg.ZoomTickets.Get)
	zoom.Post("/:id/review", auth.RequireRole(domain.RoleAdminLayanan, domain.RoleSuperAdmin), cfg.ZoomTickets.Review)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSuperAdmin))
	users.Post("", cfg.Users.Create)
	users.Get("", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Deactivate)

	assets := app.Group("/assets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	assets.Get("", cfg.Assets.List)
	assets.Get("/kondisi", cfg.Assets.KondisiValues)
	assets.Get("/:id", cfg.Assets.Get)
	assets.Post("", auth.RequireRole(domain.RoleSuperAdmin), cfg.Assets.Create)
	assets.Put("/:id", auth.RequireRole(domain.RoleSuperAdmin), cfg.Assets.Update)
	assets.Delete("/:id", auth.RequireRole(domain.RoleSuperAdmin), cfg.Assets.Delete)
}
