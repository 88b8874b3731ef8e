package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/assetsim/core/timeseries"
)

func TestClockAdvanceTick(t *testing.T) {
	c := New(timeseries.Tick(0))
	c.Advance(300 * time.Second)
	c.Advance(300 * time.Second)
	assert.True(t, c.Now().Equal(timeseries.Tick(600)))
}

func TestClockAdvanceWall(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(timeseries.Wall(start))
	c.Advance(15 * time.Minute)
	assert.True(t, c.Now().Equal(timeseries.Wall(start.Add(15*time.Minute))))
}
