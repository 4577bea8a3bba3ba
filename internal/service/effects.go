package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/observability"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// effectRunner is the best-effort side effect policy. The primary state
// transition has already committed when an effect runs, so failures are
// captured as EFFECT_FAILURE, logged and counted, never propagated back into
// the state machine.
type effectRunner struct {
	logger  *zap.Logger
	metrics *observability.Metrics
}

func newEffectRunner(logger *zap.Logger, metrics *observability.Metrics) effectRunner {
	return effectRunner{logger: logger, metrics: metrics}
}

func (e effectRunner) run(ctx context.Context, name string, fn func(context.Context) error) {
	err := fn(ctx)
	if err == nil {
		return
	}
	wrapped := util.NewEffectFailure(name, err)
	e.logger.Warn("best-effort effect failed",
		zap.String("effect", name),
		zap.Error(wrapped),
	)
	e.metrics.RecordEffectFailure(name)
}
