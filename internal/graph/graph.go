// Package graph models the task dependency graph and computes its
// topological layering.
//
// The graph is built once per planning run from a normalized task snapshot
// and never mutated afterward. Layering groups tasks whose dependencies are
// all satisfied into successive ready sets; an unresolvable cycle is surfaced
// as an explicit CycleError rather than a silently truncated order.
package graph

import (
	"sort"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/task"
)

// DependencyGraph is the derived dependency structure for one planning run.
//
// Invariants:
//   - every id referenced in Adjacency exists in Nodes
//   - a node with no dependencies has an empty (present) Adjacency entry
//   - ReverseAdjacency mirrors Adjacency edge-for-edge
type DependencyGraph struct {
	// Nodes is the set of task ids present after filtering.
	Nodes map[string]bool

	// Adjacency maps a task id to the set of ids it depends on.
	Adjacency map[string][]string

	// ReverseAdjacency maps a task id to the set of ids that depend on it.
	ReverseAdjacency map[string][]string

	// order preserves the insertion order of nodes for stable tie-breaks.
	order []string
}

// ReadySet is an unordered set of task ids whose dependencies are all
// already scheduled at a given layer of the topological order. Members are
// kept in stable id order for determinism.
type ReadySet []string

// Build converts a normalized task snapshot into a DependencyGraph.
//
// For every task a node is created; an edge is recorded from the task to
// each dependency that is itself present in the node set. Dangling
// dependency ids (referencing closed or externally unknown tasks) are
// dropped silently: a completed prerequisite no longer gates execution.
// Empty input yields an empty graph, never an error.
func Build(tasks []task.Task) *DependencyGraph {
	g := &DependencyGraph{
		Nodes:            make(map[string]bool, len(tasks)),
		Adjacency:        make(map[string][]string, len(tasks)),
		ReverseAdjacency: make(map[string][]string, len(tasks)),
		order:            make([]string, 0, len(tasks)),
	}

	for _, t := range tasks {
		g.Nodes[t.ID] = true
		g.order = append(g.order, t.ID)
		g.Adjacency[t.ID] = []string{}
	}

	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if !g.Nodes[dep] {
				continue // dangling reference, dropped
			}
			g.Adjacency[t.ID] = append(g.Adjacency[t.ID], dep)
			g.ReverseAdjacency[dep] = append(g.ReverseAdjacency[dep], t.ID)
		}
	}

	return g
}

// Size returns the number of nodes in the graph.
func (g *DependencyGraph) Size() int {
	return len(g.Nodes)
}

// DependsOn reports whether a transitively depends on b.
func (g *DependencyGraph) DependsOn(a, b string) bool {
	if a == b {
		return false
	}
	visited := make(map[string]bool)
	stack := []string{a}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, dep := range g.Adjacency[current] {
			if dep == b {
				return true
			}
			stack = append(stack, dep)
		}
	}
	return false
}

// Related reports whether a dependency relationship exists between a and b
// in either direction.
func (g *DependencyGraph) Related(a, b string) bool {
	return g.DependsOn(a, b) || g.DependsOn(b, a)
}

// Layer performs Kahn's-algorithm layering over the graph.
//
// In-degree counts a node's unresolved dependencies. The entire in-degree-0
// frontier is emitted as one ReadySet, those nodes are removed, and every
// dependent whose in-degree drops to zero joins the next frontier. Members
// within a set are sorted by id for deterministic tie-breaks.
//
// If the emitted node count falls short of the graph size, the remainder is
// stuck behind a cycle; Layer returns a CycleError naming those ids.
func (g *DependencyGraph) Layer() ([]ReadySet, error) {
	inDegree := make(map[string]int, len(g.Nodes))
	for id := range g.Nodes {
		inDegree[id] = len(g.Adjacency[id])
	}

	frontier := make([]string, 0)
	for _, id := range g.order {
		if inDegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	var layers []ReadySet
	emitted := 0

	for len(frontier) > 0 {
		sort.Strings(frontier)
		layers = append(layers, ReadySet(frontier))
		emitted += len(frontier)

		var next []string
		for _, id := range frontier {
			for _, dependent := range g.ReverseAdjacency[id] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		frontier = next
	}

	if emitted < len(g.Nodes) {
		var stuck []string
		for id := range g.Nodes {
			if inDegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, errors.NewCycleError(stuck)
	}

	return layers, nil
}

// CriticalChainLength returns the length, in layers, of the longest
// dependency chain in an acyclic graph. Returns 0 for an empty graph and an
// error when the graph is cyclic.
func (g *DependencyGraph) CriticalChainLength() (int, error) {
	layers, err := g.Layer()
	if err != nil {
		return 0, err
	}
	return len(layers), nil
}
