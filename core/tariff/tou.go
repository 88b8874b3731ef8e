package tariff

import (
	"fmt"

	"github.com/kilianp07/assetsim/core/timeseries"
)

// HourRange is a half-open [Start, End) range of wall-clock hours.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether hour falls inside the range.
func (r HourRange) Contains(hour int) bool {
	return hour >= r.Start && hour < r.End
}

// Validate checks the range covers valid hours of day.
func (r HourRange) Validate() error {
	if r.Start < 0 || r.Start > 23 || r.End < 0 || r.End > 24 || r.Start >= r.End {
		return fmt.Errorf("invalid hour range [%d, %d)", r.Start, r.End)
	}
	return nil
}

// TimeOfUse selects a rate tier by wall-clock hour. Hours outside the
// on-peak and mid-peak ranges price at the off-peak rate. Rates are per kWh;
// energies are in Wh.
type TimeOfUse struct {
	OnPeakRate    float64
	MidPeakRate   float64
	OffPeakRate   float64
	OnPeakRange   HourRange
	MidPeakRanges []HourRange
}

// NewTimeOfUse returns a time-of-use tariff with the Ontario defaults.
func NewTimeOfUse() TimeOfUse {
	return TimeOfUse{
		OnPeakRate:    0.151,
		MidPeakRate:   0.102,
		OffPeakRate:   0.074,
		OnPeakRange:   HourRange{Start: 17, End: 19},
		MidPeakRanges: []HourRange{{Start: 7, End: 11}, {Start: 17, End: 19}},
	}
}

func (t TimeOfUse) rateAt(hour int) float64 {
	if t.OnPeakRange.Contains(hour) {
		return t.OnPeakRate
	}
	for _, r := range t.MidPeakRanges {
		if r.Contains(hour) {
			return t.MidPeakRate
		}
	}
	return t.OffPeakRate
}

// Price computes the cost of a point. It needs both the time and energy
// inputs.
func (t TimeOfUse) Price(in Input) (float64, bool) {
	if in.Time == nil || in.Energy == nil {
		return 0, false
	}
	return t.rateAt(in.Time.Hour()) * *in.Energy / 1000, true
}

// PriceVector prices each row by its wall-clock hour. Tick-indexed tables
// carry no hour, so every row prices as missing, consistent with the
// pointwise rule for an absent time input.
func (t TimeOfUse) PriceVector(tbl *timeseries.Table) (*timeseries.Table, error) {
	return priceColumn(tbl, func(ts timeseries.Timestamp, energy float64) (float64, bool) {
		if ts.Kind() != timeseries.KindWall {
			return 0, false
		}
		at := ts.WallValue()
		return t.Price(Input{Time: &at, Energy: ptr(energy)})
	}), nil
}
