// Package tariff prices energy consumption. A Tariff prices a single point
// or a whole time-indexed table; both views must agree for the same inputs.
package tariff

import (
	"time"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

// Input carries the optional inputs of a pointwise price computation. Nil
// fields are absent; a tariff returns ok=false when the inputs it needs are
// missing.
type Input struct {
	Time   *time.Time
	Power  *float64
	Energy *float64
	Extra  map[string]float64
}

// Tariff maps energy, power and time to a monetary cost.
type Tariff interface {
	// Price computes the cost of a single point. ok is false when the
	// provided inputs are insufficient for this tariff.
	Price(in Input) (price float64, ok bool)

	// PriceVector returns a copy of tbl with a tariff column added or
	// overwritten. Rows whose inputs are insufficient get the missing
	// marker. Implementations must stay consistent with Price for the
	// same inputs.
	PriceVector(tbl *timeseries.Table) (*timeseries.Table, error)
}

func ptr(v float64) *float64 { return &v }

// priceColumn applies price row-wise over the energy column and writes the
// result to the tariff column. Missing energies price as missing.
func priceColumn(tbl *timeseries.Table, price func(ts timeseries.Timestamp, energy float64) (float64, bool)) *timeseries.Table {
	out := tbl.Copy()
	vals := make([]float64, out.Len())
	energies, hasEnergy := out.Column(model.EnergyKey)
	for i, ts := range out.Index() {
		vals[i] = timeseries.Missing()
		if !hasEnergy || timeseries.IsMissing(energies[i]) {
			continue
		}
		if p, ok := price(ts, energies[i]); ok {
			vals[i] = p
		}
	}
	if out.Len() == 0 {
		out.FillColumn(model.TariffKey, timeseries.Missing())
		return out
	}
	// SetColumn cannot fail here: vals has one entry per row.
	_ = out.SetColumn(model.TariffKey, vals)
	return out
}
