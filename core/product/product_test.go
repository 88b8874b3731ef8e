package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

func TestDemandResponseReward(t *testing.T) {
	dr := NewDemandResponse()

	tbl := timeseries.NewTable()
	inWindow := time.Date(2023, 1, 1, 17, 30, 0, 0, time.UTC)
	outside := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.Set(timeseries.Wall(outside), model.PowerKey, -100000))
	require.NoError(t, tbl.Set(timeseries.Wall(inWindow), model.PowerKey, -100000))

	rewards, err := dr.Reward(tbl)
	require.NoError(t, err)
	require.Len(t, rewards, 2)
	assert.Equal(t, 0.0, rewards[0], "outside the event window")
	assert.Equal(t, 100000.0, rewards[1], "generation inside the window")
}

func TestDemandResponseIgnoresTickRows(t *testing.T) {
	dr := NewDemandResponse()
	tbl := timeseries.NewTable()
	require.NoError(t, tbl.Set(timeseries.Tick(0), model.PowerKey, -100000))

	rewards, err := dr.Reward(tbl)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, rewards)
}

func TestAugmentAppendsRewardColumns(t *testing.T) {
	tbl := timeseries.NewTable()
	at := time.Date(2023, 1, 1, 17, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.Set(timeseries.Wall(at), model.PowerKey, -50000))

	out, err := Augment(tbl, []Product{NewDemandResponse()})
	require.NoError(t, err)

	v, ok := out.At(timeseries.Wall(at), "reward_DR")
	require.True(t, ok)
	assert.Equal(t, 50000.0, v)
	assert.False(t, tbl.HasColumn("reward_DR"), "input is untouched")
}
