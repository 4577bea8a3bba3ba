package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zeakmc/gatekeeper/internal/observability"
)

// OpsHandler exposes internal counters.
type OpsHandler struct {
	metrics *observability.Metrics
}

// NewOpsHandler returns a new handler instance.
func NewOpsHandler(metrics *observability.Metrics) *OpsHandler {
	return &OpsHandler{metrics: metrics}
}

// EffectFailures reports how often each best-effort side effect has failed
// since startup. Useful for spotting a revoked token or missing permission.
func (h *OpsHandler) EffectFailures(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"effect_failures": h.metrics.EffectFailures()})
}
