package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultThrottleInterval = time.Minute

// LogThrottler demotes repeated warnings to debug. Each key may log at
// WARN once per interval.
type LogThrottler struct {
	log      *zap.Logger
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLogThrottler returns a throttler; a zero interval means one minute.
func NewLogThrottler(log *zap.Logger, interval time.Duration) *LogThrottler {
	if interval <= 0 {
		interval = defaultThrottleInterval
	}
	return &LogThrottler{
		log:      log,
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Warn logs msg at WARN if key is within its budget, otherwise at DEBUG.
// It reports whether the message was emitted at WARN.
func (t *LogThrottler) Warn(key, msg string, fields ...zap.Field) bool {
	if t.limiter(key).Allow() {
		t.log.Warn(msg, fields...)
		return true
	}
	t.log.Debug(msg, fields...)
	return false
}

func (t *LogThrottler) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(t.interval), 1)
		t.limiters[key] = l
	}
	return l
}
