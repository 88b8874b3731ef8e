package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kilianp07/assetsim/core/model"
)

// TimeLayout is the fixed date-time format of the start and end times.
const TimeLayout = "2006-01-02 15:04:05"

// TimeConfig defines the simulated period and tick size.
type TimeConfig struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StepSizeS int    `json:"step_size_s"`
}

// SetDefaults applies sane defaults.
func (c *TimeConfig) SetDefaults() {
	if c.StepSizeS == 0 {
		c.StepSizeS = 300
	}
}

// Validate checks the period parses and is ordered.
func (c TimeConfig) Validate() error {
	start, err := c.Start()
	if err != nil {
		return err
	}
	end, err := c.End()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("end time must be after start time")
	}
	if c.StepSizeS <= 0 {
		return fmt.Errorf("step size must be positive, got %d", c.StepSizeS)
	}
	return nil
}

// Start parses the start time.
func (c TimeConfig) Start() (time.Time, error) {
	t, err := time.Parse(TimeLayout, c.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start time: %w", err)
	}
	return t, nil
}

// End parses the end time.
func (c TimeConfig) End() (time.Time, error) {
	t, err := time.Parse(TimeLayout, c.EndTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse end time: %w", err)
	}
	return t, nil
}

// Step returns the tick size as a duration.
func (c TimeConfig) Step() time.Duration {
	return time.Duration(c.StepSizeS) * time.Second
}

// GeoConfig locates the simulation for the weather collaborator.
type GeoConfig struct {
	LocationLat float64 `json:"location_lat"`
	LocationLon float64 `json:"location_lon"`
	LocationAlt float64 `json:"location_alt"`
}

// AssetsConfig sizes and configures the asset fleet.
type AssetsConfig struct {
	NEnergyStorages int           `json:"n_energy_storages"`
	Storage         StorageConfig `json:"storage"`
}

// SetDefaults applies sane defaults.
func (c *AssetsConfig) SetDefaults() {
	if c.NEnergyStorages == 0 {
		c.NEnergyStorages = 1
	}
	c.Storage.SetDefaults()
}

// Validate checks the fleet size and storage settings.
func (c AssetsConfig) Validate() error {
	if c.NEnergyStorages <= 0 {
		return fmt.Errorf("at least one energy storage is required")
	}
	return c.Storage.Validate()
}

// StorageConfig mirrors the asset configuration with file-friendly types.
// Control levels are string keys in the file and converted on translation.
type StorageConfig struct {
	CapacityWh          float64            `json:"capacity_wh"`
	InitialEnergyWh     float64            `json:"initial_energy_wh"`
	ControlPowerMapping map[string]float64 `json:"control_power_mapping"`
	EfficiencyIn        float64            `json:"efficiency_in"`
	EfficiencyOut       float64            `json:"efficiency_out"`
	TrackedVariables    []string           `json:"tracked_variables"`
}

// SetDefaults applies the reference storage settings.
func (c *StorageConfig) SetDefaults() {
	if c.CapacityWh == 0 {
		c.CapacityWh = 3e6
	}
	if c.InitialEnergyWh == 0 {
		c.InitialEnergyWh = 2e6
	}
	if c.ControlPowerMapping == nil {
		c.ControlPowerMapping = map[string]float64{"1": -100000, "2": 0, "3": 100000}
	}
	if c.EfficiencyIn == 0 {
		c.EfficiencyIn = 1.0
	}
	if c.EfficiencyOut == 0 {
		c.EfficiencyOut = 1.0
	}
	if c.TrackedVariables == nil {
		c.TrackedVariables = []string{model.InternalEnergyKey}
	}
}

// Validate checks the mapping keys are integer control levels.
func (c StorageConfig) Validate() error {
	if _, err := c.PowerMapping(); err != nil {
		return err
	}
	return nil
}

// PowerMapping converts the string-keyed file mapping to control levels.
func (c StorageConfig) PowerMapping() (model.PowerMapping, error) {
	mapping := make(model.PowerMapping, len(c.ControlPowerMapping))
	for key, power := range c.ControlPowerMapping {
		level, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("control level %q is not an integer", key)
		}
		mapping[level] = power
	}
	return mapping, nil
}

// AgentConfig configures the per-agent sampler and rollout.
type AgentConfig struct {
	TrajectoryLength  int            `json:"trajectory_length"`
	TrajectorySamples int            `json:"trajectory_samples"`
	RolloutStepS      int            `json:"rollout_step_s"`
	TrackedSignals    []string       `json:"tracked_signals"`
	SignalInputs      map[string]int `json:"signal_inputs"`
	SignalOutputs     []string       `json:"signal_outputs"`
}

// SetDefaults applies the reference agent settings.
func (c *AgentConfig) SetDefaults() {
	if c.TrajectoryLength == 0 {
		c.TrajectoryLength = 6
	}
	if c.TrajectorySamples == 0 {
		c.TrajectorySamples = 1
	}
	if c.RolloutStepS == 0 {
		c.RolloutStepS = 300
	}
	if c.TrackedSignals == nil {
		c.TrackedSignals = []string{model.InternalEnergyKey}
	}
	if c.SignalInputs == nil {
		c.SignalInputs = map[string]int{model.InternalEnergyKey: 0, model.ControlKey: 0}
	}
	if c.SignalOutputs == nil {
		c.SignalOutputs = []string{model.InternalEnergyKey}
	}
}

// Validate checks the rollout parameters.
func (c AgentConfig) Validate() error {
	if c.TrajectoryLength < 0 || c.TrajectorySamples < 0 || c.RolloutStepS < 0 {
		return fmt.Errorf("agent rollout parameters must be non-negative")
	}
	return nil
}

// RolloutStep returns the rollout step as a duration.
func (c AgentConfig) RolloutStep() time.Duration {
	return time.Duration(c.RolloutStepS) * time.Second
}

// TariffConfig selects the tariff variant assigned to every agent.
type TariffConfig struct {
	Type string  `json:"type"`
	Rate float64 `json:"rate"`
}

// SetDefaults applies the flat default tariff.
func (c *TariffConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "flat"
	}
	if c.Rate == 0 {
		c.Rate = 0.1
	}
}

// Validate checks the variant is known.
func (c TariffConfig) Validate() error {
	switch c.Type {
	case "flat", "tiered", "tou":
		return nil
	default:
		return fmt.Errorf("unknown tariff type %q", c.Type)
	}
}

// WeatherConfig enables the weather collaborator.
type WeatherConfig struct {
	Enabled bool   `json:"enabled"`
	BaseURL string `json:"base_url"`
}
