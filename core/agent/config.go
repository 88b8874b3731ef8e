package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/assetsim/core/model"
)

// ErrUnknownUID is returned when no configuration is registered for an
// agent.
var ErrUnknownUID = errors.New("unknown uid")

// Config is an agent's per-uid configuration. It is loaded once before the
// simulation starts and never mutated during a run.
type Config struct {
	// ControlPowerMapping must cover every control level the bound asset
	// can be issued.
	ControlPowerMapping model.PowerMapping `json:"control_power_mapping"`
	// TrackedSignals are the asset signals sampled every tick.
	TrackedSignals []string `json:"tracked_signals"`
	// TrajectoryLength is the number of rollout steps per trajectory.
	TrajectoryLength int `json:"trajectory_length"`
	// TrajectorySamples is the number of trajectories sampled per tick.
	TrajectorySamples int `json:"trajectory_samples"`
	// RolloutStep is the lookahead step of the rollout, decoupled from the
	// simulation's own tick size. Defaults to 5 minutes.
	RolloutStep time.Duration `json:"rollout_step"`
	// SignalInputs declares the forecast model's input signals with their
	// history depth (0 = current step only).
	SignalInputs map[string]int `json:"signal_inputs"`
	// SignalOutputs declares the signals the forecast model predicts.
	SignalOutputs []string `json:"signal_outputs"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TrajectoryLength == 0 {
		c.TrajectoryLength = 6
	}
	if c.TrajectorySamples == 0 {
		c.TrajectorySamples = 1
	}
	if c.RolloutStep == 0 {
		c.RolloutStep = 5 * time.Minute
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if len(c.ControlPowerMapping) == 0 {
		return fmt.Errorf("control power mapping is required")
	}
	if c.TrajectoryLength < 0 || c.TrajectorySamples < 0 {
		return fmt.Errorf("trajectory parameters must be non-negative")
	}
	if c.RolloutStep < 0 {
		return fmt.Errorf("rollout step must be non-negative")
	}
	return nil
}

// ConfigRegistry maps agent uids to their configuration.
type ConfigRegistry struct {
	configs map[string]Config
}

// NewConfigRegistry returns an empty registry.
func NewConfigRegistry() *ConfigRegistry {
	return &ConfigRegistry{configs: make(map[string]Config)}
}

// Push registers cfg for uid, applying defaults and validating.
func (r *ConfigRegistry) Push(uid string, cfg Config) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", uid, err)
	}
	r.configs[uid] = cfg
	return nil
}

// Get returns uid's configuration.
func (r *ConfigRegistry) Get(uid string) (Config, error) {
	cfg, ok := r.configs[uid]
	if !ok {
		return Config{}, fmt.Errorf("config %s: %w", uid, ErrUnknownUID)
	}
	return cfg, nil
}
