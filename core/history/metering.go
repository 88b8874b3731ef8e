package history

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

// AugmentVirtualMetering derives power and energy columns from the control
// column and the control-to-power mapping, in place of a physical meter.
//
// Power is the row-wise mapping of the control level; unmapped or missing
// levels meter as missing. Energy is power times the row-to-row time delta
// in hours. The first row has no previous row, so its delta is imputed: for
// wall-clock indexes the mean of the remaining deltas is used (missing when
// the table has a single row), for tick indexes the delta is zero. Tables
// that are empty or lack a control column get power and energy columns
// filled with missing markers rather than omitted.
//
// The input table is modified and returned; callers wanting copy semantics
// go through Store.AugmentAll.
func AugmentVirtualMetering(tbl *timeseries.Table, mapping model.PowerMapping) (*timeseries.Table, error) {
	if tbl.Len() == 0 || !tbl.HasColumn(model.ControlKey) {
		tbl.FillColumn(model.EnergyKey, timeseries.Missing())
		tbl.FillColumn(model.PowerKey, timeseries.Missing())
		return tbl, nil
	}

	controls, _ := tbl.Column(model.ControlKey)
	power := make([]float64, len(controls))
	for i, c := range controls {
		power[i] = timeseries.Missing()
		if timeseries.IsMissing(c) {
			continue
		}
		if p, ok := mapping[int(c)]; ok {
			power[i] = p
		}
	}

	deltas, err := indexDeltas(tbl)
	if err != nil {
		return nil, err
	}
	energy := make([]float64, len(power))
	for i := range energy {
		energy[i] = power[i] * deltas[i]
	}

	if err := tbl.SetColumn(model.PowerKey, power); err != nil {
		return nil, err
	}
	if err := tbl.SetColumn(model.EnergyKey, energy); err != nil {
		return nil, err
	}
	return tbl, nil
}

// indexDeltas returns the row-to-row time delta in hours, with the first
// row's delta imputed per the index kind.
func indexDeltas(tbl *timeseries.Table) ([]float64, error) {
	index := tbl.Index()
	deltas := make([]float64, len(index))
	for i := 1; i < len(index); i++ {
		d, err := index[i].ElapsedHours(index[i-1])
		if err != nil {
			return nil, err
		}
		deltas[i] = d
	}

	switch tbl.Kind() {
	case timeseries.KindWall:
		if len(deltas) > 1 {
			deltas[0] = stat.Mean(deltas[1:], nil)
		} else {
			deltas[0] = timeseries.Missing()
		}
	case timeseries.KindTick:
		deltas[0] = 0
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedIndex, tbl.Kind())
	}
	return deltas, nil
}
