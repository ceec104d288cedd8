package logger

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))

	return m.GetCounter().GetValue()
}

func TestPrometheusHookCountsLevels(t *testing.T) {
	hook := NewPrometheusHook("test")
	warn := hook.counter.WithLabelValues(zerolog.WarnLevel.String())
	before := value(t, warn)

	hook.Run(nil, zerolog.WarnLevel, "user lacks required permission")
	hook.Run(nil, zerolog.NoLevel, "ignored")

	assert.InDelta(t, before+1, value(t, warn), 0)
	assert.Same(t, hook.counter, NewPrometheusHook("other").counter)
}

func TestWriteErrorHandlerCounts(t *testing.T) {
	before := value(t, writeFailures)

	writeErrorHandler(errors.New("disk full"))

	assert.InDelta(t, before+1, value(t, writeFailures), 0)
}
