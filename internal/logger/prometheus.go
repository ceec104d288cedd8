package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	registerOnce sync.Once //nolint:gochecknoglobals

	// statements counts log lines per level. Registered by the first NewPrometheusHook call.
	statements *prometheus.CounterVec //nolint:gochecknoglobals

	writeFailures = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "goabsensi",
		Name:      "log_write_failures_total",
		Help:      "Number of log events dropped because no writer accepted them.",
	})
)

// PrometheusHook counts log statements per level.
type PrometheusHook struct {
	counter *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel && h.counter != nil {
		h.counter.WithLabelValues(level.String()).Inc()
	}
}

// NewPrometheusHook returns the hook behind goabsensi_log_statements_total. The service label
// is fixed by the first call; the metric is registered once per process.
func NewPrometheusHook(service string) PrometheusHook {
	registerOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   "goabsensi",
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return PrometheusHook{counter: statements}
}
