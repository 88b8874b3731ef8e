// Package product computes per-row rewards over rollout trajectories for
// grid products the agent can participate in.
package product

import (
	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

// Product scores a trajectory row-wise. Rewards are appended to the
// trajectory under the product's reward name.
type Product interface {
	RewardName() string
	Reward(tbl *timeseries.Table) ([]float64, error)
}

// DemandResponse rewards generation (negative power) inside a daily
// wall-clock event window and is indifferent outside it.
type DemandResponse struct {
	Window HourRangeFunc
}

// HourRangeFunc reports whether an hour of day is inside the event window.
type HourRangeFunc func(hour int) bool

// DefaultWindow is the 17:00-18:00 demand-response event window.
func DefaultWindow(hour int) bool { return hour == 17 }

// NewDemandResponse returns a demand-response product over the default
// window.
func NewDemandResponse() DemandResponse {
	return DemandResponse{Window: DefaultWindow}
}

// RewardName returns the trajectory column the rewards are stored under.
func (DemandResponse) RewardName() string { return model.RewardKey + "_DR" }

// Reward returns -power for rows inside the event window and 0 elsewhere.
// Tick-indexed trajectories carry no hour, so every row rewards 0.
func (p DemandResponse) Reward(tbl *timeseries.Table) ([]float64, error) {
	rewards := make([]float64, tbl.Len())
	power, hasPower := tbl.Column(model.PowerKey)
	for i, ts := range tbl.Index() {
		if !hasPower || timeseries.IsMissing(power[i]) || ts.Kind() != timeseries.KindWall {
			continue
		}
		if p.Window(ts.WallValue().Hour()) {
			rewards[i] = -power[i]
		}
	}
	return rewards, nil
}

// Augment appends each product's rewards to a copy of tbl.
func Augment(tbl *timeseries.Table, products []Product) (*timeseries.Table, error) {
	out := tbl.Copy()
	for _, p := range products {
		rewards, err := p.Reward(out)
		if err != nil {
			return nil, err
		}
		if out.Len() == 0 {
			out.FillColumn(p.RewardName(), timeseries.Missing())
			continue
		}
		if err := out.SetColumn(p.RewardName(), rewards); err != nil {
			return nil, err
		}
	}
	return out, nil
}
