// Package scenario is a debugging and visualization utility for decision
// graphs. It is not wired into the simulation loop.
package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when next-states, rewards and
	// probabilities differ in length.
	ErrLengthMismatch = errors.New("next states, rewards and probabilities must have the same length")
	// ErrUnknownState is returned when inserting under a state that does
	// not exist in the graph.
	ErrUnknownState = errors.New("unknown state")
)

type edge struct {
	prob float64
	to   int
}

type node struct {
	state    string
	reward   float64
	children map[string][]edge
}

// Graph is a directed scenario graph. Nodes live in an arena indexed by id
// and are looked up by state name, avoiding recursive tree search.
type Graph struct {
	nodes   []node
	byState map[string]int
	root    int
}

// New returns a graph rooted at the initial state.
func New(initialState string) *Graph {
	g := &Graph{byState: make(map[string]int)}
	g.root = g.ensureNode(initialState, 0)
	return g
}

func (g *Graph) ensureNode(state string, reward float64) int {
	if id, ok := g.byState[state]; ok {
		return id
	}
	g.nodes = append(g.nodes, node{state: state, reward: reward, children: make(map[string][]edge)})
	id := len(g.nodes) - 1
	g.byState[state] = id
	return id
}

// Insert adds the possible next states of an action taken from current,
// with their rewards and probabilities. The three slices must have the same
// length.
func (g *Graph) Insert(current, action string, nextStates []string, rewards, probabilities []float64) error {
	if len(nextStates) != len(rewards) || len(nextStates) != len(probabilities) {
		return ErrLengthMismatch
	}
	id, ok := g.byState[current]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, current)
	}
	for i, state := range nextStates {
		child := g.ensureNode(state, rewards[i])
		g.nodes[id].children[action] = append(g.nodes[id].children[action], edge{prob: probabilities[i], to: child})
	}
	return nil
}

// OptimalPath finds the path with the maximum probability-weighted
// accumulated reward, depth-first from the root.
func (g *Graph) OptimalPath() (float64, []string) {
	return g.optimalFrom(g.root, 0)
}

func (g *Graph) optimalFrom(id int, accumulated float64) (float64, []string) {
	n := g.nodes[id]
	if len(n.children) == 0 {
		return accumulated, []string{n.state}
	}
	best := 0.0
	var bestPath []string
	first := true
	for _, edges := range n.children {
		for _, e := range edges {
			adjusted := g.nodes[e.to].reward * e.prob
			reward, path := g.optimalFrom(e.to, accumulated+adjusted)
			if first || reward > best {
				best = reward
				bestPath = path
				first = false
			}
		}
	}
	return best, append([]string{n.state}, bestPath...)
}
