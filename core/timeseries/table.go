package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// SignalRecord maps signal names to scalar values for a single timestamp.
type SignalRecord map[string]float64

// ErrColumnLength is returned when a column assignment does not match the
// table's row count.
var ErrColumnLength = errors.New("column length does not match table length")

// Missing is the marker used for absent values in table columns.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Table is a time-indexed table of named float columns. The index is kept
// sorted by timestamp and every row exists in every column, with missing
// values marked by NaN. Tables are not safe for concurrent use.
type Table struct {
	index []Timestamp
	pos   map[Timestamp]int
	cols  map[string][]float64
	order []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		pos:  make(map[Timestamp]int),
		cols: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Kind returns the timestamp kind of the index, or KindNone when empty.
func (t *Table) Kind() Kind {
	if len(t.index) == 0 {
		return KindNone
	}
	return t.index[0].Kind()
}

// Index returns the row timestamps in order.
func (t *Table) Index() []Timestamp {
	out := make([]Timestamp, len(t.index))
	copy(out, t.index)
	return out
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns a copy of the named column's values in index order.
func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.cols[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}

// At returns the value at (ts, name). The second result is false when the
// row or column does not exist or the cell is missing.
func (t *Table) At(ts Timestamp, name string) (float64, bool) {
	i, ok := t.pos[ts]
	if !ok {
		return 0, false
	}
	col, ok := t.cols[name]
	if !ok {
		return 0, false
	}
	if IsMissing(col[i]) {
		return 0, false
	}
	return col[i], true
}

// Last returns the latest timestamp in the index, or the zero Timestamp for
// an empty table.
func (t *Table) Last() Timestamp {
	if len(t.index) == 0 {
		return Timestamp{}
	}
	return t.index[len(t.index)-1]
}

// Set upserts a single cell, creating the row and column as needed. Inserting
// a timestamp of a different kind than the existing index fails.
func (t *Table) Set(ts Timestamp, name string, v float64) error {
	i, err := t.ensureRow(ts)
	if err != nil {
		return err
	}
	t.ensureColumn(name)
	t.cols[name][i] = v
	return nil
}

// SetRecord upserts every signal of rec at ts. Existing cells for other
// columns are left untouched (field-wise merge, not row replacement).
func (t *Table) SetRecord(ts Timestamp, rec SignalRecord) error {
	if _, err := t.ensureRow(ts); err != nil {
		return err
	}
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := t.Set(ts, name, rec[name]); err != nil {
			return err
		}
	}
	return nil
}

// SetColumn replaces the named column with vals, which must have one value
// per row.
func (t *Table) SetColumn(name string, vals []float64) error {
	if len(vals) != len(t.index) {
		return fmt.Errorf("%w: %q has %d values for %d rows", ErrColumnLength, name, len(vals), len(t.index))
	}
	t.ensureColumn(name)
	copy(t.cols[name], vals)
	return nil
}

// FillColumn sets every row of the named column to v, creating it if needed.
func (t *Table) FillColumn(name string, v float64) {
	t.ensureColumn(name)
	col := t.cols[name]
	for i := range col {
		col[i] = v
	}
}

// Copy returns a deep copy of the table. Augmentation pipelines always work
// on copies so callers' tables are never mutated in place.
func (t *Table) Copy() *Table {
	cp := NewTable()
	cp.index = make([]Timestamp, len(t.index))
	copy(cp.index, t.index)
	for ts, i := range t.pos {
		cp.pos[ts] = i
	}
	cp.order = make([]string, len(t.order))
	copy(cp.order, t.order)
	for name, col := range t.cols {
		c := make([]float64, len(col))
		copy(c, col)
		cp.cols[name] = c
	}
	return cp
}

// TrimBefore drops every row whose timestamp orders strictly before ts.
func (t *Table) TrimBefore(ts Timestamp) {
	cut := 0
	for cut < len(t.index) && t.index[cut].Before(ts) {
		cut++
	}
	if cut == 0 {
		return
	}
	for _, dropped := range t.index[:cut] {
		delete(t.pos, dropped)
	}
	t.index = t.index[cut:]
	for ts, i := range t.pos {
		t.pos[ts] = i - cut
	}
	for name, col := range t.cols {
		t.cols[name] = col[cut:]
	}
}

func (t *Table) ensureRow(ts Timestamp) (int, error) {
	if ts.IsZero() {
		return 0, fmt.Errorf("%w: unset timestamp", ErrKindMismatch)
	}
	if i, ok := t.pos[ts]; ok {
		return i, nil
	}
	if len(t.index) > 0 && t.index[0].Kind() != ts.Kind() {
		return 0, fmt.Errorf("%w: table index is %s, got %s", ErrKindMismatch, t.index[0].Kind(), ts.Kind())
	}

	// Insert keeping the index sorted.
	at := sort.Search(len(t.index), func(i int) bool { return ts.Before(t.index[i]) })
	t.index = append(t.index, Timestamp{})
	copy(t.index[at+1:], t.index[at:])
	t.index[at] = ts
	for name, col := range t.cols {
		col = append(col, 0)
		copy(col[at+1:], col[at:])
		col[at] = Missing()
		t.cols[name] = col
	}
	for existing, i := range t.pos {
		if i >= at {
			t.pos[existing] = i + 1
		}
	}
	t.pos[ts] = at
	return at, nil
}

func (t *Table) ensureColumn(name string) {
	if _, ok := t.cols[name]; ok {
		return
	}
	col := make([]float64, len(t.index))
	for i := range col {
		col[i] = Missing()
	}
	t.cols[name] = col
	t.order = append(t.order, name)
}
