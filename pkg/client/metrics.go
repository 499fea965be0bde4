package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors of a Manager.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "mjnet").
	Namespace string

	// Subsystem is the metrics subsystem (default: "client").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registerer is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegisterer sets the Prometheus registry.
func WithRegisterer(reg prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registerer = reg
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:  "mjnet",
		Subsystem:  "client",
		Registerer: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of a Manager. A nil *Metrics
// records nothing.
//
// Metrics collected:
//   - mjnet_client_frames_total: frames by direction (in, out)
//   - mjnet_client_frame_bytes_total: frame bytes by direction
//   - mjnet_client_decode_errors_total: decode failures by layer (envelope, payload)
//   - mjnet_client_frames_dropped_total: non-binary frames discarded
//   - mjnet_client_send_failures_total: failed Send calls by reason
//   - mjnet_client_reconnects_total: automatic reconnect attempts
//   - mjnet_client_handler_panics_total: panics recovered from subscribers
//   - mjnet_client_connection_state: current State as a number
type Metrics struct {
	frames        *prometheus.CounterVec
	frameBytes    *prometheus.CounterVec
	decodeErrors  *prometheus.CounterVec
	dropped       prometheus.Counter
	sendFailures  *prometheus.CounterVec
	reconnects    prometheus.Counter
	handlerPanics prometheus.Counter
	state         prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registerer)

	return &Metrics{
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_total",
			Help:        "Total number of WebSocket frames by direction",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),

		frameBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_bytes_total",
			Help:        "Total frame bytes by direction",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),

		decodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "decode_errors_total",
			Help:        "Total number of inbound decode failures by layer",
			ConstLabels: config.ConstLabels,
		}, []string{"layer"}),

		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_dropped_total",
			Help:        "Total number of non-binary frames discarded",
			ConstLabels: config.ConstLabels,
		}),

		sendFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "send_failures_total",
			Help:        "Total number of failed sends by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconnects_total",
			Help:        "Total number of automatic reconnect attempts",
			ConstLabels: config.ConstLabels,
		}),

		handlerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handler_panics_total",
			Help:        "Total number of panics recovered from subscribers",
			ConstLabels: config.ConstLabels,
		}),

		state: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connection_state",
			Help:        "Connection state (0 idle, 1 connecting, 2 open, 3 closed)",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordFrame(dir Direction, n int) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(dir.String()).Inc()
	m.frameBytes.WithLabelValues(dir.String()).Add(float64(n))
}

func (m *Metrics) recordDecodeError(layer string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(layer).Inc()
}

func (m *Metrics) recordDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *Metrics) recordSendFailure(reason string) {
	if m == nil {
		return
	}
	m.sendFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) recordReconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

func (m *Metrics) recordHandlerPanic() {
	if m == nil {
		return
	}
	m.handlerPanics.Inc()
}

func (m *Metrics) setState(s State) {
	if m == nil {
		return
	}
	m.state.Set(float64(s))
}
