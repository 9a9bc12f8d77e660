package health

import (
	"context"
	"time"
)

type ComponentStatus struct {
	Name      string
	Ready     bool
	StartedAt time.Time
	ReadyAt   time.Time
}

type ReadinessStatus struct {
	Ready      bool
	Components []ComponentStatus
}

// ComponentManager registers components that gate service readiness.
type ComponentManager interface {
	// AddComponent registers name and returns the function that marks it ready.
	AddComponent(name string) func()
}

type ReadinessChecker interface {
	IsReady() bool
	GetStatus() ReadinessStatus
}

type ReadinessWaiter interface {
	// WaitReady blocks until every registered component is ready.
	WaitReady(ctx context.Context) error
}
