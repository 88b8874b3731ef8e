package agent

import (
	"encoding/json"
	"io"

	"github.com/kilianp07/assetsim/core/timeseries"
)

// AgentState is the persistable part of an agent: its identity and timestamp
// cursor. Rollout trajectories are transient and rebuilt on the next tick.
type AgentState struct {
	UID       string               `json:"uid"`
	Index     timeseries.Timestamp `json:"index"`
	PrevIndex timeseries.Timestamp `json:"previous_index"`
	AssetName string               `json:"asset_name,omitempty"`
}

// SaveState writes the agent's state to w.
func (a *Agent) SaveState(w io.Writer) error {
	state := AgentState{
		UID:       a.uid,
		Index:     a.index,
		PrevIndex: a.prevIndex,
	}
	if a.asset != nil {
		state.AssetName = a.asset.Name()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// LoadState restores the timestamp cursor from a previously saved state.
func (a *Agent) LoadState(r io.Reader) error {
	var state AgentState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}
	a.uid = state.UID
	a.index = state.Index
	a.prevIndex = state.PrevIndex
	return nil
}
