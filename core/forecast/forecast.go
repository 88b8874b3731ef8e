// Package forecast defines the pluggable forecasting contract used by agent
// rollouts, plus the per-entity model registry.
package forecast

import (
	"errors"
	"fmt"

	"github.com/kilianp07/assetsim/core/timeseries"
)

// ErrUnknownUID is returned when no model is assigned to the requested uid.
var ErrUnknownUID = errors.New("unknown uid")

// Metrics summarizes a model's one-step prediction accuracy.
type Metrics struct {
	RootMeanSquaredError float64 `json:"root_mean_squared_error"`
	MeanAbsoluteError    float64 `json:"mean_absolute_error"`
	MeanSquaredError     float64 `json:"mean_squared_error"`
}

// Model trains on historical signals and predicts one step ahead. Predict
// must return the input table extended with one additional row at next, all
// other rows unchanged.
type Model interface {
	Train(historical *timeseries.Table) error
	Predict(tbl *timeseries.Table, next timeseries.Timestamp) (*timeseries.Table, error)
	Evaluate(historical *timeseries.Table) (Metrics, error)
}

// Registry maps entity uids to their forecast models.
type Registry struct {
	models map[string]Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Model)}
}

// Assign assigns a model to uid.
func (r *Registry) Assign(uid string, m Model) {
	r.models[uid] = m
}

// Model returns the model assigned to uid.
func (r *Registry) Model(uid string) (Model, error) {
	m, ok := r.models[uid]
	if !ok {
		return nil, fmt.Errorf("model %s: %w", uid, ErrUnknownUID)
	}
	return m, nil
}

// Train trains uid's model on the historical table.
func (r *Registry) Train(uid string, historical *timeseries.Table) error {
	m, err := r.Model(uid)
	if err != nil {
		return err
	}
	return m.Train(historical)
}

// Predict extends a copy of tbl by one row at next using uid's model.
func (r *Registry) Predict(uid string, tbl *timeseries.Table, next timeseries.Timestamp) (*timeseries.Table, error) {
	m, err := r.Model(uid)
	if err != nil {
		return nil, err
	}
	return m.Predict(tbl.Copy(), next)
}
