package asset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Initialize(State{Timestamp: timeseries.Tick(0)}))
	_, err := s.Step(model.DiscreteControl{Level: 3}, timeseries.Tick(1))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Snapshot().WriteJSON(&buf))

	snap, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	restored, err := RestoreStorage(snap, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, s.Name(), restored.Name())
	assert.Equal(t, s.InternalEnergy(), restored.InternalEnergy())
	assert.True(t, s.Timestamp().Equal(restored.Timestamp()))

	c, err := restored.Signal(model.ControlKey)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c)

	// History logs survive the round trip and the restored asset can step.
	want, err := s.HistoricalData(true)
	require.NoError(t, err)
	got, err := restored.HistoricalData(true)
	require.NoError(t, err)
	assert.Equal(t, want.Len(), got.Len())

	_, err = restored.Step(model.DiscreteControl{Level: 2}, timeseries.Tick(2))
	require.NoError(t, err)
}

func TestSnapshotOfUninitializedAsset(t *testing.T) {
	s := newTestStorage(t)
	snap := s.Snapshot()
	assert.False(t, snap.Initialized)
	assert.Nil(t, snap.Control)
	assert.Nil(t, snap.Power)

	restored, err := RestoreStorage(snap, nil, nil)
	require.NoError(t, err)
	_, err = restored.Step(model.DiscreteControl{Level: 2}, timeseries.Tick(1))
	assert.ErrorIs(t, err, ErrNotInitialized)
}
