package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

type component struct {
	ready     bool
	startedAt time.Time
	readyAt   time.Time
}

type readiness struct {
	log *zap.Logger

	mu         sync.Mutex
	components map[string]*component
	pending    int

	readyCh   chan struct{}
	readyOnce sync.Once
}

func newReadiness(log *zap.Logger) *readiness {
	return &readiness{
		log:        log,
		components: make(map[string]*component),
		readyCh:    make(chan struct{}),
	}
}

func (r *readiness) AddComponent(name string) func() {
	r.mu.Lock()
	if _, exists := r.components[name]; !exists {
		r.components[name] = &component{startedAt: time.Now()}
		r.pending++
	}
	r.mu.Unlock()

	return func() { r.markReady(name) }
}

func (r *readiness) markReady(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.components[name]
	if !ok || c.ready {
		return
	}
	c.ready = true
	c.readyAt = time.Now()
	r.pending--

	r.log.Debug("component ready", zap.String("component", name), zap.Duration("took", c.readyAt.Sub(c.startedAt)))

	if r.pending == 0 {
		r.readyOnce.Do(func() {
			close(r.readyCh)
			r.log.Info("all components ready", zap.Int("components", len(r.components)))
		})
	}
}

func (r *readiness) IsReady() bool {
	select {
	case <-r.readyCh:
		return true
	default:
		return false
	}
}

func (r *readiness) GetStatus() ReadinessStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := ReadinessStatus{
		Ready:      r.IsReady(),
		Components: make([]ComponentStatus, 0, len(r.components)),
	}
	for name, c := range r.components {
		status.Components = append(status.Components, ComponentStatus{
			Name:      name,
			Ready:     c.ready,
			StartedAt: c.startedAt,
			ReadyAt:   c.readyAt,
		})
	}
	sort.Slice(status.Components, func(i, j int) bool {
		return status.Components[i].Name < status.Components[j].Name
	})
	return status
}

func (r *readiness) WaitReady(ctx context.Context) error {
	select {
	case <-r.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
