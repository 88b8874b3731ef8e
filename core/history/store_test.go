package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/tariff"
	"github.com/kilianp07/assetsim/core/timeseries"
)

func TestPushMergesRecords(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Push("a1", timeseries.Tick(0), timeseries.SignalRecord{model.InternalEnergyKey: 2e6}))
	require.NoError(t, s.Push("a1", timeseries.Tick(0), timeseries.SignalRecord{model.ControlKey: 3}))

	tbl, err := s.Series("a1")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	e, ok := tbl.At(timeseries.Tick(0), model.InternalEnergyKey)
	require.True(t, ok)
	assert.Equal(t, 2e6, e)
	c, ok := tbl.At(timeseries.Tick(0), model.ControlKey)
	require.True(t, ok)
	assert.Equal(t, 3.0, c)
}

func TestPushKindMismatch(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Push("a1", timeseries.Tick(0), timeseries.SignalRecord{"x": 1}))
	err := s.Push("a1", timeseries.Wall(time.Now()), timeseries.SignalRecord{"x": 2})
	assert.ErrorIs(t, err, timeseries.ErrKindMismatch)

	// A different uid starts its own series and may use another kind.
	assert.NoError(t, s.Push("a2", timeseries.Wall(time.Now()), timeseries.SignalRecord{"x": 2}))
}

func TestSeriesIsSorted(t *testing.T) {
	s := NewStore(nil)
	for _, tick := range []int64{5, 1, 3} {
		require.NoError(t, s.Push("a1", timeseries.Tick(tick), timeseries.SignalRecord{"x": float64(tick)}))
	}
	tbl, err := s.Series("a1")
	require.NoError(t, err)
	index := tbl.Index()
	require.Len(t, index, 3)
	assert.True(t, index[0].Equal(timeseries.Tick(1)))
	assert.True(t, index[2].Equal(timeseries.Tick(5)))
}

func TestSeriesUnknownUID(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Series("ghost")
	assert.ErrorIs(t, err, ErrUnknownUID)
}

func TestAugmentTariffWithoutAssignment(t *testing.T) {
	s := NewStore(nil)
	_, err := s.AugmentTariff(timeseries.NewTable(), "ghost")
	assert.ErrorIs(t, err, ErrUnknownUID)
}

func TestAugmentAllDoesNotMutateInput(t *testing.T) {
	s := NewStore(nil)
	s.AssignTariff("a1", tariff.FlatRate{Rate: 0.1})
	mapping := model.PowerMapping{3: 100000}

	tbl := timeseries.NewTable()
	require.NoError(t, tbl.Set(timeseries.Tick(0), model.ControlKey, 3))
	require.NoError(t, tbl.Set(timeseries.Tick(1), model.ControlKey, 3))

	out, err := s.AugmentAll("a1", tbl, mapping)
	require.NoError(t, err)
	assert.True(t, out.HasColumn(model.EnergyKey))
	assert.True(t, out.HasColumn(model.TariffKey))
	assert.False(t, tbl.HasColumn(model.EnergyKey))
	assert.False(t, tbl.HasColumn(model.TariffKey))
}

func TestAugmentedHistoryPipeline(t *testing.T) {
	s := NewStore(nil)
	s.AssignTariff("a1", tariff.FlatRate{Rate: 0.1})
	mapping := model.PowerMapping{1: -100000, 2: 0, 3: 100000}

	require.NoError(t, s.Push("a1", timeseries.Tick(0), timeseries.SignalRecord{model.ControlKey: 3}))
	require.NoError(t, s.Push("a1", timeseries.Tick(1), timeseries.SignalRecord{model.ControlKey: 2}))

	tbl, err := s.AugmentedHistory("a1", mapping)
	require.NoError(t, err)

	p, ok := tbl.At(timeseries.Tick(0), model.PowerKey)
	require.True(t, ok)
	assert.Equal(t, 100000.0, p)

	// Tick indexes impute a zero first delta, so the first energy is 0.
	e, ok := tbl.At(timeseries.Tick(0), model.EnergyKey)
	require.True(t, ok)
	assert.Equal(t, 0.0, e)
	e, ok = tbl.At(timeseries.Tick(1), model.EnergyKey)
	require.True(t, ok)
	assert.Equal(t, 0.0, e)

	assert.True(t, tbl.HasColumn(model.TariffKey))
}
