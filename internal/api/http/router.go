package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/handypro/internal/api/http/handlers"
	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Technicians    *handlers.TechniciansHandler
	Admin          *handlers.AdminHandler
	Team           *handlers.TeamHandler
	Settings       *handlers.SettingsHandler
	AuthMiddleware *auth.AuthMiddleware
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	app.Get("/settings", cfg.Settings.Get)

	technicians := app.Group("/technicians")
	technicians.Post("/register", cfg.Technicians.Register)
	technicians.Get("", cfg.Technicians.List)
	technicians.Get("/:id", cfg.Technicians.Get)
	technicians.Post("/:id/reviews", cfg.Technicians.SubmitReview)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	me := app.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	me.Get("", cfg.Auth.Me)
	me.Get("/profile", auth.RequireTechnician(), cfg.Technicians.Profile)
	me.Put("/profile", auth.RequireTechnician(), cfg.Technicians.UpdateProfile)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle,
		auth.RequireUserRole(domain.UserRoleAdmin, domain.UserRoleEditor))
	admin.Get("/technicians", cfg.Admin.ListTechnicians)
	admin.Get("/technicians/:id", cfg.Admin.GetTechnician)
	admin.Put("/technicians/:id/status", cfg.Admin.SetTechnicianStatus)
	admin.Delete("/technicians/:id", cfg.Admin.DeleteTechnician)
	admin.Get("/technicians/:id/history", cfg.Admin.TechnicianHistory)
	admin.Get("/reviews", cfg.Admin.ListReviews)
	admin.Put("/reviews/:id/status", cfg.Admin.SetReviewStatus)
	admin.Get("/reviews/:id/history", cfg.Admin.ReviewHistory)
	admin.Get("/stats", cfg.Admin.Stats)

	adminOnly := auth.RequireUserRole(domain.UserRoleAdmin)
	admin.Get("/editors", adminOnly, cfg.Team.List)
	admin.Post("/editors", adminOnly, cfg.Team.Create)
	admin.Delete("/editors/:id", adminOnly, cfg.Team.Delete)
	admin.Put("/settings", adminOnly, cfg.Settings.Update)
}
