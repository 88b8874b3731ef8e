package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

var testMapping = model.PowerMapping{1: -100000, 2: 0, 3: 100000}

func TestMeteringWallIndex(t *testing.T) {
	tbl := timeseries.NewTable()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		at      time.Time
		control float64
	}{
		{start, 3},
		{start.Add(5 * time.Minute), 1},
		{start.Add(15 * time.Minute), 2},
	}
	for _, r := range rows {
		require.NoError(t, tbl.Set(timeseries.Wall(r.at), model.ControlKey, r.control))
	}

	out, err := AugmentVirtualMetering(tbl, testMapping)
	require.NoError(t, err)

	power, ok := out.Column(model.PowerKey)
	require.True(t, ok)
	assert.Equal(t, []float64{100000, -100000, 0}, power)

	// The first delta is the mean of the remaining ones: (5min + 10min)/2.
	energy, ok := out.Column(model.EnergyKey)
	require.True(t, ok)
	assert.InDelta(t, 100000*0.125, energy[0], 1e-6)
	assert.InDelta(t, -100000*5.0/60, energy[1], 1e-6)
	assert.InDelta(t, 0, energy[2], 1e-6)
}

func TestMeteringSingleWallRowHasMissingEnergy(t *testing.T) {
	tbl := timeseries.NewTable()
	require.NoError(t, tbl.Set(timeseries.Wall(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)), model.ControlKey, 3))

	out, err := AugmentVirtualMetering(tbl, testMapping)
	require.NoError(t, err)

	power, ok := out.Column(model.PowerKey)
	require.True(t, ok)
	assert.Equal(t, 100000.0, power[0])

	energy, ok := out.Column(model.EnergyKey)
	require.True(t, ok)
	assert.True(t, timeseries.IsMissing(energy[0]))
}

func TestMeteringTickIndexImputesZeroFirstDelta(t *testing.T) {
	tbl := timeseries.NewTable()
	for tick := int64(0); tick < 3; tick++ {
		require.NoError(t, tbl.Set(timeseries.Tick(tick), model.ControlKey, 3))
	}

	out, err := AugmentVirtualMetering(tbl, testMapping)
	require.NoError(t, err)

	energy, ok := out.Column(model.EnergyKey)
	require.True(t, ok)
	assert.Equal(t, 0.0, energy[0])
	assert.Equal(t, 100000.0, energy[1])
	assert.Equal(t, 100000.0, energy[2])
}

func TestMeteringUnmappedControlIsMissing(t *testing.T) {
	tbl := timeseries.NewTable()
	require.NoError(t, tbl.Set(timeseries.Tick(0), model.ControlKey, 3))
	require.NoError(t, tbl.Set(timeseries.Tick(1), model.ControlKey, 42))

	out, err := AugmentVirtualMetering(tbl, testMapping)
	require.NoError(t, err)

	power, ok := out.Column(model.PowerKey)
	require.True(t, ok)
	assert.False(t, timeseries.IsMissing(power[0]))
	assert.True(t, timeseries.IsMissing(power[1]))

	energy, ok := out.Column(model.EnergyKey)
	require.True(t, ok)
	assert.True(t, timeseries.IsMissing(energy[1]))
}

func TestMeteringWithoutControlColumn(t *testing.T) {
	tbl := timeseries.NewTable()
	require.NoError(t, tbl.Set(timeseries.Tick(0), model.InternalEnergyKey, 2e6))

	out, err := AugmentVirtualMetering(tbl, testMapping)
	require.NoError(t, err)

	for _, name := range []string{model.PowerKey, model.EnergyKey} {
		col, ok := out.Column(name)
		require.True(t, ok, name)
		for _, v := range col {
			assert.True(t, timeseries.IsMissing(v), name)
		}
	}
}

func TestMeteringEmptyTable(t *testing.T) {
	out, err := AugmentVirtualMetering(timeseries.NewTable(), testMapping)
	require.NoError(t, err)
	assert.True(t, out.HasColumn(model.PowerKey))
	assert.True(t, out.HasColumn(model.EnergyKey))
	assert.Equal(t, 0, out.Len())
}
