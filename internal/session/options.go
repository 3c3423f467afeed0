package session

import (
	"time"

	"github.com/akashvibhute/simlane-web-sub000/internal/logging"
)

// Defaults for coordinator timing and history depth.
const (
	DefaultHeartbeatInterval = 5 * time.Second
	DefaultIdleTimeout       = 30 * time.Second
	DefaultEvictTimeout      = 2 * time.Minute
	DefaultSweepInterval     = time.Second
	DefaultHistoryLimit      = 100
)

// coordinatorConfig holds optional configuration for a Coordinator.
type coordinatorConfig struct {
	heartbeatInterval time.Duration
	idleTimeout       time.Duration
	evictTimeout      time.Duration
	sweepInterval     time.Duration
	historyLimit      int
	logger            *logging.Logger
}

func defaultConfig() coordinatorConfig {
	return coordinatorConfig{
		heartbeatInterval: DefaultHeartbeatInterval,
		idleTimeout:       DefaultIdleTimeout,
		evictTimeout:      DefaultEvictTimeout,
		sweepInterval:     DefaultSweepInterval,
		historyLimit:      DefaultHistoryLimit,
		logger:            logging.NopLogger(),
	}
}

// Option configures a Coordinator.
type Option func(*coordinatorConfig)

// WithHeartbeatInterval sets how often the coordinator announces liveness
// while connected.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *coordinatorConfig) {
		if d > 0 {
			c.heartbeatInterval = d
		}
	}
}

// WithIdleTimeout sets how long a collaborator's heartbeats may lapse
// before the local view demotes it to idle.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *coordinatorConfig) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// WithEvictTimeout sets how long a collaborator may stay silent before the
// local view drops it entirely.
func WithEvictTimeout(d time.Duration) Option {
	return func(c *coordinatorConfig) {
		if d > 0 {
			c.evictTimeout = d
		}
	}
}

// WithSweepInterval sets how often the presence view is scanned for lapsed
// heartbeats.
func WithSweepInterval(d time.Duration) Option {
	return func(c *coordinatorConfig) {
		if d > 0 {
			c.sweepInterval = d
		}
	}
}

// WithHistoryLimit caps the undo stack depth. Zero means unlimited.
func WithHistoryLimit(n int) Option {
	return func(c *coordinatorConfig) {
		if n >= 0 {
			c.historyLimit = n
		}
	}
}

// WithLogger sets the logger used by the coordinator.
func WithLogger(log *logging.Logger) Option {
	return func(c *coordinatorConfig) {
		if log != nil {
			c.logger = log
		}
	}
}
