package asyncbuf

import (
	"time"

	"go.uber.org/zap"

	"github.com/velsh/asyncbuf/retry"
)

type Option = func(*config)

// WithLogger sets the logger used by the buffer's worker. Defaults to a nop
// logger.
func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		panic("logger can't be nil")
	}
	return func(c *config) {
		c.logger = logger
	}
}

// WithRetryPolicy sets the policy applied to collaborator calls within a
// single update cycle. The default makes exactly one attempt: a failed call
// ends the cycle and leaves the previous payload in place.
func WithRetryPolicy(policy retry.Policy) Option {
	if policy == nil {
		panic("policy can't be nil")
	}
	return func(c *config) {
		c.retryPolicy = policy
	}
}

// WithInterval sets the minimum time between worker iterations of a
// [Continuous] buffer: the next iteration starts no sooner than interval
// after the previous one began. Zero disables the limit. Other buffer kinds
// ignore this option.
func WithInterval(interval time.Duration) Option {
	if interval < 0 {
		panic("interval can't be < 0")
	}
	return func(c *config) {
		c.interval = interval
	}
}

// WithPrometheus enables the Prometheus metrics described by a
// [PrometheusConfig].
func WithPrometheus(pc *PrometheusConfig) Option {
	if pc == nil {
		panic("prometheus config can't be nil")
	}
	return func(c *config) {
		c.metrics = pc.metrics()
	}
}

type config struct {
	logger      *zap.Logger
	retryPolicy retry.Policy
	interval    time.Duration
	metrics     *metrics
}

func newConfig(options ...Option) *config {
	options = append([]Option{
		WithLogger(zap.NewNop()),
		WithRetryPolicy(retry.Immediate(1)),
	}, options...)

	cfg := config{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}
