package agent

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	f := newFixture(t, Config{RolloutStep: 300 * time.Second})
	require.NoError(t, f.agent.SampleAssetSignals())
	f.clock.Advance(300 * time.Second)
	require.NoError(t, f.agent.SampleAssetSignals())

	var buf bytes.Buffer
	require.NoError(t, f.agent.SaveState(&buf))

	restored := New(testUID, f.agent.deps)
	require.NoError(t, restored.LoadState(&buf))

	assert.Equal(t, f.agent.uid, restored.uid)
	assert.True(t, f.agent.index.Equal(restored.index))
	assert.True(t, f.agent.prevIndex.Equal(restored.prevIndex))
}
