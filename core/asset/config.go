package asset

import (
	"fmt"

	"github.com/kilianp07/assetsim/core/model"
)

// StorageConfig is the construction-time configuration of an energy storage
// asset. It is immutable after construction.
type StorageConfig struct {
	CapacityWh          float64            `json:"capacity_wh"`
	InitialEnergyWh     float64            `json:"initial_energy_wh"`
	ControlPowerMapping model.PowerMapping `json:"control_power_mapping"`
	EfficiencyIn        float64            `json:"efficiency_in"`
	EfficiencyOut       float64            `json:"efficiency_out"`
	DecayFactor         float64            `json:"decay_factor"`
	TrackedVariables    []string           `json:"tracked_variables"`
}

// DefaultStorageConfig returns the reference storage configuration.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		CapacityWh:          3e6,
		InitialEnergyWh:     2e6,
		ControlPowerMapping: model.PowerMapping{1: -100000, 2: 0, 3: 100000},
		EfficiencyIn:        1.0,
		EfficiencyOut:       1.0,
		DecayFactor:         1.0,
		TrackedVariables:    []string{model.InternalEnergyKey},
	}
}

// CoreVariables are recorded in every asset's history regardless of the
// configured tracked set.
func CoreVariables() []string {
	return []string{model.TimestampKey, model.ControlKey, model.PowerKey}
}

// Validate checks configuration bounds. Construction fails immediately on a
// violation.
func (c StorageConfig) Validate() error {
	if c.CapacityWh <= 0 {
		return fmt.Errorf("capacity must be positive, got %g", c.CapacityWh)
	}
	if c.EfficiencyIn < 0 || c.EfficiencyIn > 1 {
		return fmt.Errorf("efficiency_in must be in [0, 1], got %g", c.EfficiencyIn)
	}
	if c.EfficiencyOut < 0 || c.EfficiencyOut > 1 {
		return fmt.Errorf("efficiency_out must be in [0, 1], got %g", c.EfficiencyOut)
	}
	return nil
}

// Variables returns the full variable set recorded in history: core
// variables first, then the configured tracked variables.
func (c StorageConfig) Variables() []string {
	return append(CoreVariables(), c.TrackedVariables...)
}
