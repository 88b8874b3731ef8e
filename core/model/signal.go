package model

import "sort"

// Well-known signal names shared by assets, the historical store and the
// augmentation pipeline.
const (
	TimestampKey      = "timestamp"
	ControlKey        = "control"
	PowerKey          = "power"
	EnergyKey         = "energy"
	TariffKey         = "tariff"
	RewardKey         = "reward"
	InternalEnergyKey = "internal_energy"
)

// PowerMapping maps discrete control levels to signed power in watts.
// Positive power is consumption, negative is generation.
type PowerMapping map[int]float64

// Levels returns the mapped control levels in ascending order.
func (m PowerMapping) Levels() []int {
	levels := make([]int, 0, len(m))
	for l := range m {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}
