// Package history owns the per-entity historical signal store and its
// derived-signal augmentation pipeline (virtual metering and tariff
// pricing).
package history

import (
	"errors"
	"fmt"

	"github.com/kilianp07/assetsim/core/logger"
	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/tariff"
	"github.com/kilianp07/assetsim/core/timeseries"
)

var (
	// ErrUnknownUID is returned when no data or tariff is registered for
	// the requested entity.
	ErrUnknownUID = errors.New("unknown uid")
	// ErrUnsupportedIndex is returned by the augmentation pipeline for an
	// index representation it does not recognize.
	ErrUnsupportedIndex = errors.New("unsupported index type")
)

// Store maps entity uids to their historical signal records and assigned
// tariffs. It exclusively owns the persisted signal data. Not safe for
// concurrent use; if parallelized, writers must own their uid's partition.
type Store struct {
	signals map[string]map[timeseries.Timestamp]timeseries.SignalRecord
	kinds   map[string]timeseries.Kind
	tariffs map[string]tariff.Tariff
	log     logger.Logger
}

// NewStore returns an empty store.
func NewStore(log logger.Logger) *Store {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Store{
		signals: make(map[string]map[timeseries.Timestamp]timeseries.SignalRecord),
		kinds:   make(map[string]timeseries.Kind),
		tariffs: make(map[string]tariff.Tariff),
		log:     log,
	}
}

// Push merges rec into uid's series at ts. Re-pushing an existing timestamp
// updates field-wise; it does not replace the record. The timestamp kind
// must match the series' existing entries.
func (s *Store) Push(uid string, ts timeseries.Timestamp, rec timeseries.SignalRecord) error {
	if ts.IsZero() {
		return fmt.Errorf("push %s: %w: unset timestamp", uid, timeseries.ErrKindMismatch)
	}
	if kind, ok := s.kinds[uid]; ok && kind != ts.Kind() {
		return fmt.Errorf("push %s: %w: series is %s, got %s", uid, timeseries.ErrKindMismatch, kind, ts.Kind())
	}
	series, ok := s.signals[uid]
	if !ok {
		series = make(map[timeseries.Timestamp]timeseries.SignalRecord)
		s.signals[uid] = series
		s.kinds[uid] = ts.Kind()
	}
	existing, ok := series[ts]
	if !ok {
		existing = make(timeseries.SignalRecord, len(rec))
		series[ts] = existing
	}
	for name, v := range rec {
		existing[name] = v
	}
	return nil
}

// Series materializes uid's records into a time-ordered table.
func (s *Store) Series(uid string) (*timeseries.Table, error) {
	series, ok := s.signals[uid]
	if !ok {
		return nil, fmt.Errorf("series %s: %w", uid, ErrUnknownUID)
	}
	tbl := timeseries.NewTable()
	for ts, rec := range series {
		if err := tbl.SetRecord(ts, rec); err != nil {
			return nil, fmt.Errorf("series %s: %w", uid, err)
		}
	}
	return tbl, nil
}

// AssignTariff assigns a tariff structure to uid.
func (s *Store) AssignTariff(uid string, t tariff.Tariff) {
	s.tariffs[uid] = t
}

// AugmentTariff delegates pricing of tbl to uid's assigned tariff. It fails
// with a lookup error if no tariff was assigned.
func (s *Store) AugmentTariff(tbl *timeseries.Table, uid string) (*timeseries.Table, error) {
	t, ok := s.tariffs[uid]
	if !ok {
		return nil, fmt.Errorf("tariff %s: %w", uid, ErrUnknownUID)
	}
	return t.PriceVector(tbl.Copy())
}

// AugmentAll composes virtual metering then tariff pricing, always on a
// private copy of tbl.
func (s *Store) AugmentAll(uid string, tbl *timeseries.Table, mapping model.PowerMapping) (*timeseries.Table, error) {
	metered, err := AugmentVirtualMetering(tbl.Copy(), mapping)
	if err != nil {
		return nil, err
	}
	return s.AugmentTariff(metered, uid)
}

// AugmentedHistory returns uid's series run through the full augmentation
// pipeline.
func (s *Store) AugmentedHistory(uid string, mapping model.PowerMapping) (*timeseries.Table, error) {
	tbl, err := s.Series(uid)
	if err != nil {
		return nil, err
	}
	return s.AugmentAll(uid, tbl, mapping)
}
