package asset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kilianp07/assetsim/core/logger"
	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/timeseries"
)

// EnergyStorage is the battery-like asset variant. Its only integrator state
// is the stored energy in watt-hours.
type EnergyStorage struct {
	name string
	cfg  StorageConfig

	timestamp      timeseries.Timestamp
	control        float64
	power          float64
	internalEnergy float64
	hasControl     bool
	hasPower       bool
	initialized    bool

	history *History
	rng     *rand.Rand
	log     logger.Logger
}

// NewEnergyStorage validates cfg and returns a storage asset. The rng drives
// AutoStep's control sampling; a nil rng falls back to the global source.
func NewEnergyStorage(name string, cfg StorageConfig, rng *rand.Rand, log logger.Logger) (*EnergyStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("storage %s: %w", name, err)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &EnergyStorage{
		name:           name,
		cfg:            cfg,
		internalEnergy: cfg.InitialEnergyWh,
		history:        NewHistory(cfg.Variables()),
		rng:            rng,
		log:            log,
	}, nil
}

// Name returns the asset's unique name.
func (s *EnergyStorage) Name() string { return s.name }

// Config returns the construction-time configuration.
func (s *EnergyStorage) Config() StorageConfig { return s.cfg }

// Initialize sets the physical state from initial, appends the initial
// values to history and marks the asset ready.
func (s *EnergyStorage) Initialize(initial State) error {
	if initial.Timestamp.IsZero() {
		return fmt.Errorf("storage %s: initial state needs a timestamp", s.name)
	}
	s.timestamp = initial.Timestamp
	if e, ok := initial.Values[model.InternalEnergyKey]; ok {
		s.internalEnergy = e
	}
	s.recordVariables()
	s.initialized = true
	return nil
}

// Step advances the storage one step. Power is looked up from the control
// mapping (an unmapped level steps at 0 W), and the stored energy integrates
// power over the elapsed time since the previous step.
func (s *EnergyStorage) Step(c model.Control, ts timeseries.Timestamp) (float64, error) {
	if !s.initialized {
		return 0, fmt.Errorf("storage %s: %w", s.name, ErrNotInitialized)
	}
	discrete, ok := c.(model.DiscreteControl)
	if !ok {
		return 0, fmt.Errorf("storage %s: %w", s.name, ErrContinuousControl)
	}

	s.power = s.cfg.ControlPowerMapping[discrete.Level]
	s.hasPower = true

	elapsed, err := ts.ElapsedHours(s.timestamp)
	if err != nil {
		return 0, fmt.Errorf("storage %s: %w", s.name, err)
	}
	s.internalEnergy += s.power * elapsed

	s.timestamp = ts
	s.control = float64(discrete.Level)
	s.hasControl = true
	s.recordVariables()

	s.log.Debugw("storage step", map[string]any{
		"asset":           s.name,
		"timestamp":       ts.String(),
		"power_w":         s.power,
		"internal_energy": s.internalEnergy,
	})
	return s.power, nil
}

// AutoStep samples a control level uniformly from the valid discrete range
// and delegates to Step.
func (s *EnergyStorage) AutoStep(ts timeseries.Timestamp) (float64, error) {
	levels := s.cfg.ControlPowerMapping.Levels()
	if len(levels) == 0 {
		return 0, fmt.Errorf("storage %s: empty control power mapping", s.name)
	}
	lo, hi := levels[0], levels[len(levels)-1]
	level := lo + s.intn(hi-lo+1)
	return s.Step(model.DiscreteControl{Level: level}, ts)
}

func (s *EnergyStorage) intn(n int) int {
	if n <= 1 {
		return 0
	}
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Signal reflects the named current variable. Names outside the declared
// variable set fail with a lookup error.
func (s *EnergyStorage) Signal(name string) (float64, error) {
	switch name {
	case model.InternalEnergyKey:
		return s.internalEnergy, nil
	case model.ControlKey:
		if !s.hasControl {
			return 0, fmt.Errorf("storage %s: control: %w", s.name, ErrSignalUndefined)
		}
		return s.control, nil
	case model.PowerKey:
		if !s.hasPower {
			return 0, fmt.Errorf("storage %s: power: %w", s.name, ErrSignalUndefined)
		}
		return s.power, nil
	default:
		return 0, fmt.Errorf("storage %s: %q: %w", s.name, name, ErrUnknownSignal)
	}
}

// HistoricalData reconstructs the tracked-variable table from the history
// logs.
func (s *EnergyStorage) HistoricalData(nanPadding bool) (*timeseries.Table, error) {
	return s.history.Table(nanPadding)
}

// StateOfCharge returns the stored energy as a percentage of capacity,
// rounded to two decimals.
func (s *EnergyStorage) StateOfCharge() float64 {
	return math.Round(s.internalEnergy/s.cfg.CapacityWh*100*100) / 100
}

// InternalEnergy returns the current stored energy in watt-hours.
func (s *EnergyStorage) InternalEnergy() float64 { return s.internalEnergy }

// Timestamp returns the timestamp of the last step.
func (s *EnergyStorage) Timestamp() timeseries.Timestamp { return s.timestamp }

func (s *EnergyStorage) recordVariables() {
	current := map[string]float64{
		model.InternalEnergyKey: s.internalEnergy,
	}
	if s.hasControl {
		current[model.ControlKey] = s.control
	}
	if s.hasPower {
		current[model.PowerKey] = s.power
	}
	s.history.Append(s.timestamp, current)
}
