package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	batches [][]TickResult
	err     error
}

func (c *captureSink) RecordTick(results []TickResult) error {
	c.batches = append(c.batches, results)
	return c.err
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &captureSink{}
	b := &captureSink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordTick([]TickResult{{AssetID: "es1"}}))
	assert.Len(t, a.batches, 1)
	assert.Len(t, b.batches, 1)
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &captureSink{err: boom}
	b := &captureSink{}
	m := NewMultiSink(a, b)

	err := m.RecordTick(nil)
	assert.ErrorIs(t, err, boom)
	// The failing sink stops the fan-out.
	assert.Empty(t, b.batches)
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, 9090, cfg.PrometheusPort)
	assert.NoError(t, cfg.Validate())

	cfg.InfluxEnabled = true
	assert.Error(t, cfg.Validate(), "influx url is required")
}
