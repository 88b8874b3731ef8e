package asset

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

func newTestStorage(t *testing.T) *EnergyStorage {
	t.Helper()
	s, err := NewEnergyStorage("es1", DefaultStorageConfig(), rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	return s
}

func TestNewEnergyStorageValidatesConfig(t *testing.T) {
	cfg := DefaultStorageConfig()
	cfg.CapacityWh = 0
	_, err := NewEnergyStorage("es1", cfg, nil, nil)
	assert.Error(t, err)

	cfg = DefaultStorageConfig()
	cfg.EfficiencyIn = 1.5
	_, err = NewEnergyStorage("es1", cfg, nil, nil)
	assert.Error(t, err)
}

func TestStepBeforeInitialize(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Step(model.DiscreteControl{Level: 2}, timeseries.Tick(1))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitializeNeedsTimestamp(t *testing.T) {
	s := newTestStorage(t)
	err := s.Initialize(State{})
	assert.Error(t, err)
}

func TestStepIdleHoldsEnergy(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{
		Timestamp: timeseries.Tick(0),
		Values:    map[string]float64{model.InternalEnergyKey: 2e6},
	}))

	for _, tick := range []int64{1, 2, 3} {
		power, err := s.Step(model.DiscreteControl{Level: 2}, timeseries.Tick(tick))
		require.NoError(t, err)
		assert.Equal(t, 0.0, power)
	}
	assert.Equal(t, 2e6, s.InternalEnergy())
	assert.True(t, s.Timestamp().Equal(timeseries.Tick(3)))
}

func TestStepIntegratesTickHours(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))

	// A tick difference of 1 is one hour factor, so charging at 100 kW
	// adds 100 kWh.
	power, err := s.Step(model.DiscreteControl{Level: 3}, timeseries.Tick(1))
	require.NoError(t, err)
	assert.Equal(t, 100000.0, power)
	assert.Equal(t, 2e6+100000, s.InternalEnergy())

	// Discharging for two ticks removes 200 kWh.
	_, err = s.Step(model.DiscreteControl{Level: 1}, timeseries.Tick(3))
	require.NoError(t, err)
	assert.Equal(t, 2e6-100000, s.InternalEnergy())
}

func TestStepIntegratesWallHours(t *testing.T) {
	s := newTestStorage(t)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Wall(start)}))

	_, err := s.Step(model.DiscreteControl{Level: 3}, timeseries.Wall(start.Add(15*time.Minute)))
	require.NoError(t, err)
	assert.InDelta(t, 2e6+25000, s.InternalEnergy(), 1e-6)
}

func TestStepRejectsContinuousControl(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))
	_, err := s.Step(model.ContinuousControl{Value: 0.5}, timeseries.Tick(1))
	assert.ErrorIs(t, err, ErrContinuousControl)
}

func TestStepKindMismatch(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))
	_, err := s.Step(model.DiscreteControl{Level: 2}, timeseries.Wall(time.Now()))
	assert.ErrorIs(t, err, timeseries.ErrKindMismatch)
}

func TestStepUnmappedLevelIsZeroPower(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))
	power, err := s.Step(model.DiscreteControl{Level: 99}, timeseries.Tick(1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, power)
	assert.Equal(t, 2e6, s.InternalEnergy())
}

func TestSignals(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))

	v, err := s.Signal(model.InternalEnergyKey)
	require.NoError(t, err)
	assert.Equal(t, 2e6, v)

	// Control and power are undefined before the first step.
	_, err = s.Signal(model.ControlKey)
	assert.ErrorIs(t, err, ErrSignalUndefined)
	_, err = s.Signal(model.PowerKey)
	assert.ErrorIs(t, err, ErrSignalUndefined)

	_, err = s.Signal("voltage")
	assert.ErrorIs(t, err, ErrUnknownSignal)

	_, err = s.Step(model.DiscreteControl{Level: 3}, timeseries.Tick(1))
	require.NoError(t, err)

	c, err := s.Signal(model.ControlKey)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c)
	p, err := s.Signal(model.PowerKey)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, p)
}

func TestAutoStepSamplesValidLevels(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))

	for tick := int64(1); tick <= 50; tick++ {
		_, err := s.AutoStep(timeseries.Tick(tick))
		require.NoError(t, err)
		c, err := s.Signal(model.ControlKey)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c, 1.0)
		assert.LessOrEqual(t, c, 3.0)
	}
}

func TestStateOfCharge(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))
	assert.InDelta(t, 66.67, s.StateOfCharge(), 1e-9)
}

func TestHistoricalData(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))
	for _, tick := range []int64{1, 2, 3} {
		_, err := s.Step(model.DiscreteControl{Level: 2}, timeseries.Tick(tick))
		require.NoError(t, err)
	}

	// With padding the initial row keeps its missing control cell.
	tbl, err := s.HistoricalData(true)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())
	e, ok := tbl.At(timeseries.Tick(0), model.InternalEnergyKey)
	require.True(t, ok)
	assert.Equal(t, 2e6, e)
	_, ok = tbl.At(timeseries.Tick(3), model.ControlKey)
	assert.False(t, ok)

	// Without padding the table truncates to the shortest log.
	tbl, err = s.HistoricalData(false)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
}
