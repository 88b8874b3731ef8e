// Package metrics defines the observability contract for simulation runs.
// Sink implementations live in infra/metrics.
package metrics

import (
	"time"

	"github.com/kilianp07/assetsim/core/timeseries"
)

// TickResult represents one asset's state after a simulation tick.
type TickResult struct {
	RunID            string
	AssetID          string
	Timestamp        timeseries.Timestamp
	ControlLevel     int
	PowerW           float64
	InternalEnergyWh float64
	StateOfCharge    float64
	TickDuration     time.Duration
}

// Sink records tick results for observability purposes.
type Sink interface {
	RecordTick(results []TickResult) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordTick([]TickResult) error { return nil }

// MultiSink fans tick results out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink over the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTick forwards the results to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordTick(results []TickResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordTick(results); err != nil {
			return err
		}
	}
	return nil
}
