package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/assetsim/core/metrics"
)

func TestPromSinkRecordsTicks(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	results := []coremetrics.TickResult{{
		AssetID:       "es1",
		PowerW:        100000,
		StateOfCharge: 66.67,
		TickDuration:  time.Millisecond,
	}}
	require.NoError(t, sink.RecordTick(results))
	require.NoError(t, sink.RecordTick(results))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.ticks.WithLabelValues("es1")))
	assert.Equal(t, 66.67, testutil.ToFloat64(sink.soc.WithLabelValues("es1")))
	assert.Equal(t, 100000.0, testutil.ToFloat64(sink.power.WithLabelValues("es1")))
}

func TestNewPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSink(reg)
	require.NoError(t, err)
	second, err := NewPromSink(reg)
	require.NoError(t, err)
	assert.Equal(t, first.ticks, second.ticks)
}
