// Package asset models controllable energy assets as deterministic state
// machines stepped by the simulation loop.
package asset

import (
	"errors"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

var (
	// ErrNotInitialized is returned when an asset is stepped before
	// Initialize.
	ErrNotInitialized = errors.New("asset not initialized")
	// ErrContinuousControl is returned by variants that only support
	// discrete control levels.
	ErrContinuousControl = errors.New("continuous controls not supported")
	// ErrUnknownSignal is returned for signal names outside the asset's
	// declared variable set.
	ErrUnknownSignal = errors.New("unknown signal")
	// ErrSignalUndefined is returned when a known signal has no value yet.
	ErrSignalUndefined = errors.New("signal not defined yet")
)

// State carries the physical state an asset is initialized from: the initial
// timestamp plus one value per integrator variable.
type State struct {
	Timestamp timeseries.Timestamp `json:"timestamp"`
	Values    map[string]float64   `json:"values"`
}

// Asset is the state-transition contract shared by all asset variants.
// Positive power is consumption, negative is generation.
type Asset interface {
	// Name returns the asset's unique name.
	Name() string

	// Initialize sets the physical state, records the initial values in
	// the history logs and marks the asset ready for stepping.
	Initialize(initial State) error

	// Step advances the physical state given a control and the new
	// timestamp, and returns the instantaneous power in watts. The
	// timestamp must use the same representation as the previous step.
	Step(c model.Control, ts timeseries.Timestamp) (float64, error)

	// AutoStep chooses a control autonomously and delegates to Step.
	AutoStep(ts timeseries.Timestamp) (float64, error)

	// Signal reflects the named current variable.
	Signal(name string) (float64, error)

	// HistoricalData reconstructs a time-indexed table from the
	// per-variable history logs. With nanPadding, shorter logs are
	// right-padded with missing markers to the longest log's length;
	// without it, all logs are truncated to the shortest.
	HistoricalData(nanPadding bool) (*timeseries.Table, error)
}
