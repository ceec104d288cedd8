package permission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "permission_cache_lookups_total",
			Help: "Number of permission cache lookups, differentiated by hit or miss.",
		},
		[]string{"backend", "result"},
	)

	gateDecisions = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "permission_gate_decisions_total",
			Help: "Number of authorization decisions, differentiated by the path that decided and the outcome.",
		},
		[]string{"path", "decision"},
	)
)
