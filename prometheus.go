package asyncbuf

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by a
// buffer.
//
// An instance can be created only by the [Prometheus] function. The zero
// value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the triggers counter, partitioned by outcome
	// ("started" or "coalesced").
	Triggers prometheus.CounterOpts
	// Options for the update cycles counter, partitioned by status
	// ("ok" or "error").
	Updates prometheus.CounterOpts
	// Options for the update cycle duration histogram.
	UpdateDuration prometheus.HistogramOpts
	// Options for the dropped inputs counter (last-write-wins overwrites of
	// an unconsumed input).
	InputsDropped prometheus.CounterOpts
	// Options for the taken outputs counter.
	OutputsTaken prometheus.CounterOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If
// registerer is nil, metrics will not be registered. Many default parameters
// can be configured by passing configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "asyncbuf"
		subsystem = ""
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		Triggers: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers",
			Help:      "Number of trigger calls, by outcome",
		},
		Updates: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "updates",
			Help:      "Number of completed update cycles, by status",
		},
		UpdateDuration: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "update_duration_seconds",
			Help:      "Duration of update cycles",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		InputsDropped: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inputs_dropped",
			Help:      "Number of unconsumed input packets overwritten by a newer one",
		},
		OutputsTaken: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outputs_taken",
			Help:      "Number of output packets taken by callers",
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		triggers:       prometheus.NewCounterVec(c.Triggers, []string{"outcome"}),
		updates:        prometheus.NewCounterVec(c.Updates, []string{"status"}),
		updateDuration: prometheus.NewHistogram(c.UpdateDuration),
		inputsDropped:  prometheus.NewCounter(c.InputsDropped),
		outputsTaken:   prometheus.NewCounter(c.OutputsTaken),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.triggers,
			m.updates,
			m.updateDuration,
			m.inputsDropped,
			m.outputsTaken,
		)
	}

	return &m
}

// metrics methods are nil-safe so buffers without WithPrometheus pay nothing.
type metrics struct {
	triggers       *prometheus.CounterVec
	updates        *prometheus.CounterVec
	updateDuration prometheus.Histogram
	inputsDropped  prometheus.Counter
	outputsTaken   prometheus.Counter
}

func (m *metrics) trigger(outcome string) {
	if m == nil {
		return
	}
	m.triggers.WithLabelValues(outcome).Inc()
}

func (m *metrics) update(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(status).Inc()
	m.updateDuration.Observe(d.Seconds())
}

func (m *metrics) inputDropped() {
	if m == nil {
		return
	}
	m.inputsDropped.Inc()
}

func (m *metrics) outputTaken() {
	if m == nil {
		return
	}
	m.outputsTaken.Inc()
}
