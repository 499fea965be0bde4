package client

import (
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/webmajiang/mjnet/pkg/protocol"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Manager.
type Option func(*Manager)

// WithConfig sets the connection configuration. Zero fields take their
// defaults.
func WithConfig(cfg *Config) Option {
	return func(m *Manager) {
		if cfg != nil {
			m.config = cfg.Clone()
		}
	}
}

// WithDialer replaces the gorilla/websocket transport.
func WithDialer(d Dialer) Option {
	return func(m *Manager) {
		m.dialer = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the clock that drives the reconnect timer.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithRegistry sets the action registry used to encode and decode frames.
func WithRegistry(r *protocol.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithTracer sets the OpenTelemetry tracer. The default is the tracer of
// the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithFrameObserver registers an observer for raw frames.
func WithFrameObserver(o FrameObserver) Option {
	return func(m *Manager) {
		m.observer = o
	}
}
