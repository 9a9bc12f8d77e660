package health

import (
	"go.uber.org/fx"
)

var (
	_ ComponentManager = (*readiness)(nil)
	_ ReadinessChecker = (*readiness)(nil)
	_ ReadinessWaiter  = (*readiness)(nil)
)

func NewReadinessModule() fx.Option {
	return fx.Provide(
		newReadiness,
		func(r *readiness) ComponentManager { return r },
		func(r *readiness) ReadinessChecker { return r },
		func(r *readiness) ReadinessWaiter { return r },
	)
}
