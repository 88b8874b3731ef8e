package asset

import (
	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

// History holds per-variable append-only logs. Logs may have mismatched
// lengths: a variable that transitions from undefined to defined (power is
// only knowable after the first control) starts its log late.
type History struct {
	Timestamps []timeseries.Timestamp `json:"timestamps"`
	Values     map[string][]float64   `json:"values"`
}

// NewHistory returns empty logs for the given variable names. The timestamp
// variable is held separately as it becomes the table index.
func NewHistory(variables []string) *History {
	values := make(map[string][]float64, len(variables))
	for _, name := range variables {
		if name == model.TimestampKey {
			continue
		}
		values[name] = []float64{}
	}
	return &History{Values: values}
}

// Append records ts and, for each defined variable in current, its value.
// Undefined variables are skipped, leaving their log shorter.
func (h *History) Append(ts timeseries.Timestamp, current map[string]float64) {
	h.Timestamps = append(h.Timestamps, ts)
	for name := range h.Values {
		if v, ok := current[name]; ok {
			h.Values[name] = append(h.Values[name], v)
		}
	}
}

// Table reconstructs a time-indexed table from the logs. This is a pure
// function of the logs; the timestamp log becomes the index and is not a
// column.
func (h *History) Table(nanPadding bool) (*timeseries.Table, error) {
	length := len(h.Timestamps)
	if nanPadding {
		for _, log := range h.Values {
			if len(log) > length {
				length = len(log)
			}
		}
	} else {
		for _, log := range h.Values {
			if len(log) < length {
				length = len(log)
			}
		}
	}

	tbl := timeseries.NewTable()
	for i := 0; i < length && i < len(h.Timestamps); i++ {
		ts := h.Timestamps[i]
		for name, log := range h.Values {
			v := timeseries.Missing()
			if i < len(log) {
				v = log[i]
			}
			if err := tbl.Set(ts, name, v); err != nil {
				return nil, err
			}
		}
	}
	return tbl, nil
}

// Equal reports whether two histories hold identical logs.
func (h *History) Equal(o *History) bool {
	if len(h.Timestamps) != len(o.Timestamps) || len(h.Values) != len(o.Values) {
		return false
	}
	for i, ts := range h.Timestamps {
		if !ts.Equal(o.Timestamps[i]) {
			return false
		}
	}
	for name, log := range h.Values {
		other, ok := o.Values[name]
		if !ok || len(other) != len(log) {
			return false
		}
		for i, v := range log {
			if v != other[i] {
				return false
			}
		}
	}
	return true
}
