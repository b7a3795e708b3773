package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/api/http/handlers"
	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Requests       *handlers.RequestsHandler
	StaffRequests  *handlers.StaffRequestsHandler
	Tours          *handlers.ToursHandler
	Flights        *handlers.FlightsHandler
	Clients        *handlers.ClientsHandler
	Employees      *handlers.EmployeesHandler
	Statistics     *handlers.StatisticsHandler
	Favorites      *handlers.FavoritesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Public surface: catalog browsing and the inquiry form.
	app.Get("/tours", cfg.Tours.List)
	app.Get("/tours/:id", cfg.Tours.Get)
	app.Post("/requests", cfg.Requests.Submit)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	// Authenticated clients.
	client := app.Group("/client", cfg.AuthMiddleware.Handle, auth.RequireClient())
	client.Post("/requests", cfg.Requests.SubmitAsClient)
	client.Get("/requests", cfg.Requests.ListOwn)
	client.Get("/requests/:id", cfg.Requests.GetOwn)
	client.Get("/favorites", cfg.Favorites.List)
	client.Post("/favorites", cfg.Favorites.Add)
	client.Delete("/favorites/:tourId", cfg.Favorites.Remove)

	// Staff: employees and admins.
	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleEmployee, domain.RoleAdmin), auth.RequireEmployee())
	staff.Get("/requests", cfg.StaffRequests.List)
	staff.Get("/requests/available", cfg.StaffRequests.Available)
	staff.Get("/requests/mine", cfg.StaffRequests.Mine)
	staff.Get("/requests/:id", cfg.StaffRequests.Get)
	staff.Post("/requests/:id/take", cfg.StaffRequests.Take)
	staff.Patch("/requests/:id/status", cfg.StaffRequests.UpdateOwnStatus)
	staff.Get("/requests/:id/history", cfg.StaffRequests.History)
	staff.Post("/requests/:id/comments", cfg.StaffRequests.AddComment)
	staff.Get("/requests/:id/comments", cfg.StaffRequests.ListComments)
	staff.Get("/clients", cfg.Clients.List)
	staff.Get("/clients/:id", cfg.Clients.Get)
	staff.Post("/clients", cfg.Clients.Create)
	staff.Put("/clients/:id", cfg.Clients.Update)
	staff.Patch("/clients/:id/vip", cfg.Clients.SetVIP)
	staff.Get("/statistics", cfg.Statistics.Snapshot)
	staff.Get("/statistics/export", cfg.Statistics.ExportCSV)

	// Admin only.
	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Patch("/requests/:id/status", cfg.StaffRequests.AdminUpdateStatus)
	admin.Patch("/requests/:id/priority", cfg.StaffRequests.AdminUpdatePriority)
	admin.Get("/tours", cfg.Tours.ListAll)
	admin.Post("/tours", cfg.Tours.Create)
	admin.Put("/tours/:id", cfg.Tours.Update)
	admin.Delete("/tours/:id", cfg.Tours.Deactivate)
	admin.Get("/flights", cfg.Flights.List)
	admin.Get("/flights/:id", cfg.Flights.Get)
	admin.Post("/flights", cfg.Flights.Create)
	admin.Put("/flights/:id", cfg.Flights.Update)
	admin.Get("/employees", cfg.Employees.List)
	admin.Get("/employees/:id", cfg.Employees.Get)
	admin.Post("/employees", cfg.Employees.Create)
	admin.Put("/employees/:id", cfg.Employees.Update)
}
