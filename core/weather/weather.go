// Package weather provides historical weather lookups for the simulation's
// setup phase. Data is pre-fetched and interpolated once; lookups inside the
// run are nearest-neighbour against the in-memory series.
package weather

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData is returned when a lookup is attempted on an empty series.
var ErrNoData = errors.New("no weather data")

// Ref exposes historical weather values at a target location.
type Ref interface {
	// TemperatureAt returns the temperature at the given time using a
	// nearest-neighbour lookup.
	TemperatureAt(t time.Time) (float64, error)
}

// Series is an in-memory, evenly spaced temperature series.
type Series struct {
	start time.Time
	step  time.Duration
	temps []float64
}

// NewSeries interpolates hourly temperature samples to the given resolution.
// Samples must be hourly starting at start.
func NewSeries(start time.Time, hourly []float64, step time.Duration) (*Series, error) {
	if len(hourly) == 0 {
		return nil, ErrNoData
	}
	if step <= 0 || step > time.Hour {
		return nil, fmt.Errorf("interpolation step must be in (0, 1h], got %s", step)
	}
	perHour := int(time.Hour / step)
	temps := make([]float64, 0, (len(hourly)-1)*perHour+1)
	for i := 0; i < len(hourly)-1; i++ {
		for j := 0; j < perHour; j++ {
			frac := float64(j) / float64(perHour)
			temps = append(temps, hourly[i]+(hourly[i+1]-hourly[i])*frac)
		}
	}
	temps = append(temps, hourly[len(hourly)-1])
	return &Series{start: start, step: step, temps: temps}, nil
}

// TemperatureAt returns the temperature nearest to t.
func (s *Series) TemperatureAt(t time.Time) (float64, error) {
	if len(s.temps) == 0 {
		return 0, ErrNoData
	}
	offset := t.Sub(s.start)
	i := int((offset + s.step/2) / s.step)
	if i < 0 {
		i = 0
	}
	if i >= len(s.temps) {
		i = len(s.temps) - 1
	}
	return s.temps[i], nil
}
