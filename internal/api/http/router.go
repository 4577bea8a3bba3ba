package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zeakmc/gatekeeper/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Feedback *handlers.FeedbackHandler
	Ops      *handlers.OpsHandler
}

// RegisterRoutes wires the operational HTTP routes. This surface is internal
// tooling for operators; member-facing traffic goes through the gateway.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1")
	v1.Get("/guilds/:guild_id/feedback", cfg.Feedback.Recent)
	v1.Get("/guilds/:guild_id/feedback/stats", cfg.Feedback.Stats)
	v1.Get("/metrics/effects", cfg.Ops.EffectFailures)
}
