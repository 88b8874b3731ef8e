package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

// ErrInsufficientHistory is returned when the input table has no row to
// predict from.
var ErrInsufficientHistory = errors.New("insufficient history")

// StorageModel is the baseline one-step energy-integrator model for the
// energy storage variable set: the next internal energy is the last one plus
// the power of the last control held for the model step.
type StorageModel struct {
	PowerMapping model.PowerMapping
	// Step is the horizon a predicted control is assumed to be held for.
	Step time.Duration
}

// NewStorageModel returns an integrator model over mapping with a 5-minute
// step.
func NewStorageModel(mapping model.PowerMapping) *StorageModel {
	return &StorageModel{PowerMapping: mapping, Step: 5 * time.Minute}
}

// Train is a no-op: the integrator has no free parameters.
func (m *StorageModel) Train(_ *timeseries.Table) error { return nil }

// Predict extends tbl with one row at next, integrating the last row's
// control over the model step.
func (m *StorageModel) Predict(tbl *timeseries.Table, next timeseries.Timestamp) (*timeseries.Table, error) {
	last := tbl.Last()
	if last.IsZero() {
		return nil, fmt.Errorf("storage model: %w", ErrInsufficientHistory)
	}
	energy, ok := tbl.At(last, model.InternalEnergyKey)
	if !ok {
		return nil, fmt.Errorf("storage model: no internal energy at %s", last)
	}
	control, ok := tbl.At(last, model.ControlKey)
	if !ok {
		return nil, fmt.Errorf("storage model: no control at %s", last)
	}
	power, ok := m.PowerMapping[int(control)]
	if !ok {
		return nil, fmt.Errorf("storage model: unmapped control level %d", int(control))
	}

	out := tbl.Copy()
	delta := power * m.Step.Hours()
	if err := out.Set(next, model.InternalEnergyKey, energy+delta); err != nil {
		return nil, err
	}
	return out, nil
}

// Evaluate backtests one-step predictions over the historical table and
// returns the residual metrics.
func (m *StorageModel) Evaluate(historical *timeseries.Table) (Metrics, error) {
	index := historical.Index()
	var sq, abs []float64
	for i := 1; i < len(index); i++ {
		prevEnergy, ok := historical.At(index[i-1], model.InternalEnergyKey)
		if !ok {
			continue
		}
		control, ok := historical.At(index[i-1], model.ControlKey)
		if !ok {
			continue
		}
		actual, ok := historical.At(index[i], model.InternalEnergyKey)
		if !ok {
			continue
		}
		power, ok := m.PowerMapping[int(control)]
		if !ok {
			continue
		}
		hours, err := index[i].ElapsedHours(index[i-1])
		if err != nil {
			return Metrics{}, err
		}
		residual := actual - (prevEnergy + power*hours)
		sq = append(sq, residual*residual)
		abs = append(abs, math.Abs(residual))
	}
	if len(sq) == 0 {
		return Metrics{}, nil
	}
	mse := stat.Mean(sq, nil)
	return Metrics{
		RootMeanSquaredError: math.Sqrt(mse),
		MeanAbsoluteError:    stat.Mean(abs, nil),
		MeanSquaredError:     mse,
	}, nil
}
