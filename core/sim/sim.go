// Package sim composes the clock, assets, agents and shared collaborators
// and drives the fixed-order per-tick loop.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/assetsim/core/agent"
	"github.com/kilianp07/assetsim/core/asset"
	"github.com/kilianp07/assetsim/core/clock"
	"github.com/kilianp07/assetsim/core/forecast"
	"github.com/kilianp07/assetsim/core/history"
	"github.com/kilianp07/assetsim/core/logger"
	"github.com/kilianp07/assetsim/core/metrics"
	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/product"
	"github.com/kilianp07/assetsim/core/tariff"
	"github.com/kilianp07/assetsim/core/timeseries"
	"github.com/kilianp07/assetsim/core/weather"
)

// Telemetry publishes per-tick asset results to an external transport.
type Telemetry interface {
	PublishTick(result metrics.TickResult) error
}

// Options configure a simulation run.
type Options struct {
	Start timeseries.Timestamp
	End   timeseries.Timestamp
	// Step is the simulation tick size.
	Step time.Duration

	StorageCount int
	Storage      asset.StorageConfig
	Agent        agent.Config

	// NewTariff builds the tariff assigned to each agent uid.
	NewTariff func() tariff.Tariff
	// NewModel builds the forecast model assigned to each agent uid.
	NewModel func() forecast.Model
	Products []product.Product

	Seed      int64
	Logger    logger.Logger
	Sink      metrics.Sink
	Telemetry Telemetry
	Weather   weather.Ref
}

// Simulation owns the clock, the assets, the agents and the shared
// collaborator modules. Single-threaded and fully synchronous.
type Simulation struct {
	runID string
	opts  Options

	clock    *clock.Clock
	store    *history.Store
	models   *forecast.Registry
	configs  *agent.ConfigRegistry
	storages []*asset.EnergyStorage
	agents   []*agent.Agent

	end  timeseries.Timestamp
	sink metrics.Sink
	log  logger.Logger
}

// New wires a simulation from the options: assets are created and
// initialized at the start time, agents are bound one per asset, and each
// uid gets its tariff, model and configuration registered.
func New(o Options) (*Simulation, error) {
	if o.Start.IsZero() || o.End.IsZero() || o.Start.Kind() != o.End.Kind() {
		return nil, fmt.Errorf("start and end must be set and share a timestamp kind")
	}
	if o.Step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %s", o.Step)
	}
	if o.StorageCount <= 0 {
		return nil, fmt.Errorf("at least one asset is required")
	}
	if o.NewTariff == nil || o.NewModel == nil {
		return nil, fmt.Errorf("tariff and model factories are required")
	}
	log := o.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	sink := o.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}

	s := &Simulation{
		runID:   uuid.NewString(),
		opts:    o,
		clock:   clock.New(o.Start),
		store:   history.NewStore(log),
		models:  forecast.NewRegistry(),
		configs: agent.NewConfigRegistry(),
		end:     o.End,
		sink:    sink,
		log:     log,
	}

	rng := rand.New(rand.NewSource(o.Seed))
	mapping := o.Agent.ControlPowerMapping
	if mapping == nil {
		mapping = o.Storage.ControlPowerMapping
		o.Agent.ControlPowerMapping = mapping
	}
	levels := mapping.Levels()
	if len(levels) == 0 {
		return nil, fmt.Errorf("control power mapping is empty")
	}

	for i := 1; i <= o.StorageCount; i++ {
		uid := fmt.Sprintf("energy_storage_%d", i)
		storage, err := asset.NewEnergyStorage(uid, o.Storage, rng, log)
		if err != nil {
			return nil, err
		}
		initial := asset.State{
			Timestamp: o.Start,
			Values:    map[string]float64{model.InternalEnergyKey: o.Storage.InitialEnergyWh},
		}
		if err := storage.Initialize(initial); err != nil {
			return nil, err
		}
		s.storages = append(s.storages, storage)

		if err := s.configs.Push(uid, o.Agent); err != nil {
			return nil, err
		}
		s.store.AssignTariff(uid, o.NewTariff())
		s.models.Assign(uid, o.NewModel())

		ag := agent.New(uid, agent.Deps{
			Clock:    s.clock,
			Store:    s.store,
			Models:   s.models,
			Configs:  s.configs,
			Products: o.Products,
			Policy:   agent.UniformPolicy(levels, rng),
			Logger:   log,
		})
		ag.BindAsset(storage)
		s.agents = append(s.agents, ag)
	}

	if o.Weather != nil {
		if o.Start.Kind() == timeseries.KindWall {
			if temp, err := o.Weather.TemperatureAt(o.Start.WallValue()); err == nil {
				log.Infof("weather at start: %.1f C", temp)
			}
		}
	}

	log.Infof("simulation %s ready: %d assets, %s to %s, step %s",
		s.runID, o.StorageCount, o.Start, o.End, o.Step)
	return s, nil
}

// RunID returns the unique identifier of this run.
func (s *Simulation) RunID() string { return s.runID }

// Storages returns the simulation's assets.
func (s *Simulation) Storages() []*asset.EnergyStorage { return s.storages }

// Agents returns the simulation's agents.
func (s *Simulation) Agents() []*agent.Agent { return s.agents }

// Store returns the shared historical store.
func (s *Simulation) Store() *history.Store { return s.store }

// Clock returns the simulation clock.
func (s *Simulation) Clock() *clock.Clock { return s.clock }

// Run drives the loop until the end time. The order within a tick is fixed:
// agents sample and roll out first, then assets step physically, then the
// clock advances. Agents must observe the asset before this tick's control
// is chosen and applied. Any error halts the run; there is no recovery.
func (s *Simulation) Run() error {
	ticks := 0
	for s.clock.Now().Before(s.end) {
		tickStart := time.Now()

		for _, ag := range s.agents {
			if err := ag.Run(); err != nil {
				return fmt.Errorf("tick %d: %w", ticks, err)
			}
		}

		results := make([]metrics.TickResult, 0, len(s.storages))
		for _, storage := range s.storages {
			power, err := storage.AutoStep(s.clock.Now())
			if err != nil {
				return fmt.Errorf("tick %d: %w", ticks, err)
			}
			control, _ := storage.Signal(model.ControlKey)
			results = append(results, metrics.TickResult{
				RunID:            s.runID,
				AssetID:          storage.Name(),
				Timestamp:        s.clock.Now(),
				ControlLevel:     int(control),
				PowerW:           power,
				InternalEnergyWh: storage.InternalEnergy(),
				StateOfCharge:    storage.StateOfCharge(),
				TickDuration:     time.Since(tickStart),
			})
		}

		if err := s.sink.RecordTick(results); err != nil {
			s.log.Errorf("record tick: %v", err)
		}
		if s.opts.Telemetry != nil {
			for _, r := range results {
				if err := s.opts.Telemetry.PublishTick(r); err != nil {
					s.log.Errorf("publish tick: %v", err)
				}
			}
		}

		s.clock.Advance(s.opts.Step)
		ticks++
	}
	s.log.Infof("simulation %s finished after %d ticks", s.runID, ticks)
	return nil
}
