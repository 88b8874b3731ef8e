package tariff

import (
	"github.com/kilianp07/assetsim/core/timeseries"
)

// FlatRate prices every watt-hour at the same rate.
type FlatRate struct {
	Rate float64
}

// NewFlatRate returns a flat tariff at the default residential rate.
func NewFlatRate() FlatRate {
	return FlatRate{Rate: 0.1}
}

// Price returns rate * energy. It needs the energy input only.
func (t FlatRate) Price(in Input) (float64, bool) {
	if in.Energy == nil {
		return 0, false
	}
	return t.Rate * *in.Energy, true
}

// PriceVector adds a tariff column equal to rate * energy, element-wise.
func (t FlatRate) PriceVector(tbl *timeseries.Table) (*timeseries.Table, error) {
	return priceColumn(tbl, func(_ timeseries.Timestamp, energy float64) (float64, bool) {
		return t.Price(Input{Energy: ptr(energy)})
	}), nil
}
