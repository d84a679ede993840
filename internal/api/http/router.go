package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-attendance/internal/api/http/handlers"
	"github.com/spec-kit/gym-attendance/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Iclock         *handlers.IclockHandler
	Auth           *handlers.AuthHandler
	Devices        *handlers.DevicesHandler
	Members        *handlers.MembersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The /iclock prefix follows the path
// the terminals are hardcoded to push to.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/iclock/cdata", cfg.Iclock.Handshake)
	app.Post("/iclock/cdata", cfg.Iclock.Push)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)
	api.Get("/devices", cfg.Devices.List)
	api.Post("/devices", cfg.Devices.Create)
	api.Patch("/devices/:code/active", cfg.Devices.SetActive)
	api.Delete("/devices/:code", cfg.Devices.Delete)

	api.Get("/members", cfg.Members.List)
	api.Get("/members/export", cfg.Members.ExportCSV)
	api.Get("/members/:id/attendance", cfg.Members.Attendance)
}
