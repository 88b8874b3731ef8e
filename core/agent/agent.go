// Package agent implements the per-asset decision agent: signal sampling
// with lagged control bookkeeping, and forward trajectory rollouts combining
// a forecast model with a control policy.
package agent

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kilianp07/assetsim/core/asset"
	"github.com/kilianp07/assetsim/core/clock"
	"github.com/kilianp07/assetsim/core/forecast"
	"github.com/kilianp07/assetsim/core/history"
	"github.com/kilianp07/assetsim/core/logger"
	"github.com/kilianp07/assetsim/core/model"
	"github.com/kilianp07/assetsim/core/product"
	"github.com/kilianp07/assetsim/core/timeseries"
)

// ErrNoAsset is returned when an agent runs without a bound asset.
var ErrNoAsset = errors.New("no asset bound to agent")

// Policy chooses a discrete control level from the trajectory so far.
type Policy func(tbl *timeseries.Table) int

// UniformPolicy samples uniformly among the given control levels.
func UniformPolicy(levels []int, rng *rand.Rand) Policy {
	return func(_ *timeseries.Table) int {
		return levels[rng.Intn(len(levels))]
	}
}

// Deps are the collaborators an agent needs, injected at construction.
type Deps struct {
	Clock    *clock.Clock
	Store    *history.Store
	Models   *forecast.Registry
	Configs  *ConfigRegistry
	Products []product.Product
	Policy   Policy
	Logger   logger.Logger
}

// Agent drives one asset: every tick it records observed signals, back-fills
// the previous tick's control, and samples forward trajectories.
type Agent struct {
	uid   string
	asset asset.Asset
	deps  Deps
	log   logger.Logger

	index     timeseries.Timestamp
	prevIndex timeseries.Timestamp

	// trajectories holds only the most recent rollout batch; it is
	// overwritten every tick, never accumulated.
	trajectories []*timeseries.Table
}

// New returns an agent with the given collaborators. The asset is bound
// separately with BindAsset.
func New(uid string, deps Deps) *Agent {
	log := deps.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Agent{uid: uid, deps: deps, log: log}
}

// UID returns the agent's unique identifier.
func (a *Agent) UID() string { return a.uid }

// BindAsset binds the agent to its asset. Each agent drives exactly one
// asset.
func (a *Agent) BindAsset(as asset.Asset) {
	a.asset = as
}

// Trajectories returns the most recent rollout batch.
func (a *Agent) Trajectories() []*timeseries.Table {
	return a.trajectories
}

// Run executes one agent tick: sample, then rollout.
func (a *Agent) Run() error {
	if err := a.SampleAssetSignals(); err != nil {
		return err
	}
	return a.EvaluatePolicy()
}

// SampleAssetSignals records the asset's tracked signals at the current
// timestamp and back-fills the control at the previous one.
//
// The control observed now was selected and applied at the previous tick and
// acted between then and now, so it is attributed to the previous index.
func (a *Agent) SampleAssetSignals() error {
	if a.asset == nil {
		return fmt.Errorf("agent %s: %w", a.uid, ErrNoAsset)
	}
	cfg, err := a.deps.Configs.Get(a.uid)
	if err != nil {
		return err
	}

	a.prevIndex = a.index
	a.index = a.deps.Clock.Now()

	rec := make(timeseries.SignalRecord, len(cfg.TrackedSignals))
	for _, name := range cfg.TrackedSignals {
		v, err := a.asset.Signal(name)
		if err != nil {
			return fmt.Errorf("agent %s: sample %q: %w", a.uid, name, err)
		}
		rec[name] = v
	}
	if err := a.deps.Store.Push(a.uid, a.index, rec); err != nil {
		return fmt.Errorf("agent %s: %w", a.uid, err)
	}

	if !a.prevIndex.IsZero() {
		control, err := a.asset.Signal(model.ControlKey)
		if err != nil {
			return fmt.Errorf("agent %s: sample control: %w", a.uid, err)
		}
		rec := timeseries.SignalRecord{model.ControlKey: control}
		if err := a.deps.Store.Push(a.uid, a.prevIndex, rec); err != nil {
			return fmt.Errorf("agent %s: %w", a.uid, err)
		}
	}
	return nil
}

// EvaluatePolicy samples the configured number of forward trajectories from
// the augmented history as of now and keeps them as the agent's current
// batch.
func (a *Agent) EvaluatePolicy() error {
	cfg, err := a.deps.Configs.Get(a.uid)
	if err != nil {
		return err
	}
	now := a.deps.Clock.Now()
	hist, err := a.deps.Store.AugmentedHistory(a.uid, cfg.ControlPowerMapping)
	if err != nil {
		return fmt.Errorf("agent %s: %w", a.uid, err)
	}

	trajectories := make([]*timeseries.Table, 0, cfg.TrajectorySamples)
	for i := 0; i < cfg.TrajectorySamples; i++ {
		traj, err := a.sampleTrajectory(hist, cfg, now)
		if err != nil {
			return fmt.Errorf("agent %s: trajectory %d: %w", a.uid, i, err)
		}
		// Keep only the forward-looking part, from now onwards.
		traj.TrimBefore(now)

		traj, err = product.Augment(traj, a.deps.Products)
		if err != nil {
			return fmt.Errorf("agent %s: trajectory %d: %w", a.uid, i, err)
		}
		trajectories = append(trajectories, traj)
	}
	a.trajectories = trajectories
	return nil
}

// sampleTrajectory composes the multi-step rollout: pick a control, record
// it at the current rollout index, extend one step with the forecast model,
// re-run the augmentation pipeline, advance. The result is a synthetic
// trajectory, never written back into the store.
func (a *Agent) sampleTrajectory(hist *timeseries.Table, cfg Config, now timeseries.Timestamp) (*timeseries.Table, error) {
	tbl := hist.Copy()
	current := now
	for step := 0; step < cfg.TrajectoryLength; step++ {
		next := current.Add(cfg.RolloutStep)
		level := a.deps.Policy(tbl)
		if err := tbl.Set(current, model.ControlKey, float64(level)); err != nil {
			return nil, err
		}
		extended, err := a.deps.Models.Predict(a.uid, tbl, next)
		if err != nil {
			return nil, err
		}
		tbl, err = a.deps.Store.AugmentAll(a.uid, extended, cfg.ControlPowerMapping)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return tbl, nil
}
