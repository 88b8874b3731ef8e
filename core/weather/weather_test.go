package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeriesInterpolates(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewSeries(start, []float64{0, 10}, 30*time.Minute)
	require.NoError(t, err)

	v, err := s.TemperatureAt(start.Add(30 * time.Minute))
	require.NoError(t, err)
	assert.InDelta(t, 5, v, 1e-9)
}

func TestTemperatureAtNearestNeighbour(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewSeries(start, []float64{0, 10}, 30*time.Minute)
	require.NoError(t, err)

	v, err := s.TemperatureAt(start.Add(29 * time.Minute))
	require.NoError(t, err)
	assert.InDelta(t, 5, v, 1e-9)

	// Lookups outside the series clamp to the edges.
	v, err = s.TemperatureAt(start.Add(-time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-9)
	v, err = s.TemperatureAt(start.Add(24 * time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-9)
}

func TestNewSeriesValidation(t *testing.T) {
	start := time.Now()
	_, err := NewSeries(start, nil, 30*time.Minute)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = NewSeries(start, []float64{1}, 2*time.Hour)
	assert.Error(t, err)
}
