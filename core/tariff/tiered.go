package tariff

import (
	"github.com/kilianp07/assetsim/core/timeseries"
)

// Tiered is a two-tier patrimonial tariff: consumption below the cutoff in
// the billing period is priced at the patrimonial rate, the excess at the
// highest rate. The period energy consumed so far may be supplied through
// Input.Extra under PeriodEnergyKey.
type Tiered struct {
	PatrimonialRate float64
	HighestRate     float64
	CutoffEnergy    float64
}

// PeriodEnergyKey is the Extra key carrying the energy already consumed in
// the current billing period.
const PeriodEnergyKey = "period_energy"

// NewTiered returns a tiered tariff with the published default rates.
func NewTiered() Tiered {
	return Tiered{
		PatrimonialRate: 0.06509,
		HighestRate:     0.10041,
		CutoffEnergy:    40.0,
	}
}

// Price computes the two-tier cost of a point. It needs the energy input;
// without a period energy in Extra the low tier is assumed empty.
func (t Tiered) Price(in Input) (float64, bool) {
	if in.Energy == nil {
		return 0, false
	}
	periodEnergy := in.Extra[PeriodEnergyKey]
	low := periodEnergy
	if low > t.CutoffEnergy {
		low = t.CutoffEnergy
	}
	high := *in.Energy - t.CutoffEnergy
	if high < 0 {
		high = 0
	}
	return low*t.PatrimonialRate + high*t.HighestRate, true
}

// PriceVector prices each row pointwise with no period context.
func (t Tiered) PriceVector(tbl *timeseries.Table) (*timeseries.Table, error) {
	return priceColumn(tbl, func(_ timeseries.Timestamp, energy float64) (float64, bool) {
		return t.Price(Input{Energy: ptr(energy)})
	}), nil
}
