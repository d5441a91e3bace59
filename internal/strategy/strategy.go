// Package strategy implements the pluggable ordering strategies applied to
// the ready sets produced by the topological layering.
//
// Strategies form a small closed set behind a single Reorder contract so the
// dependency-order invariant is enforceable in one place: a strategy may
// reorder members within a layer or merge independent layers, but it may
// never move a task to an earlier layer than its dependencies allow.
package strategy

import (
	"sort"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/graph"
	"github.com/planora/planora/internal/task"
)

// Name identifies one of the supported ordering strategies.
type Name string

const (
	// Topological passes the ready sets through unchanged: dependency order
	// only, with stable id tie-breaks.
	Topological Name = "topological"

	// RiskFirst schedules lower-numbered (higher urgency) priority classes
	// ahead of same-layer lower-priority tasks.
	RiskFirst Name = "risk_first"

	// FoundationalFirst pulls tasks matching foundational-work heuristics
	// (schema, infrastructure, setup vocabulary) to the front of the
	// earliest layer their dependencies allow.
	FoundationalFirst Name = "foundational_first"

	// ParallelMaximizing merges independent ready sets into larger parallel
	// batches to maximize concurrency.
	ParallelMaximizing Name = "parallel_maximizing"
)

// String returns the string representation of the strategy name.
func (n Name) String() string {
	return string(n)
}

// IsValid returns true if this is a recognized strategy name.
func (n Name) IsValid() bool {
	switch n {
	case Topological, RiskFirst, FoundationalFirst, ParallelMaximizing:
		return true
	default:
		return false
	}
}

// All returns the closed set of strategy names in presentation order.
func All() []Name {
	return []Name{Topological, RiskFirst, FoundationalFirst, ParallelMaximizing}
}

// Metadata carries the per-task information a strategy may consult while
// reordering. It is read-only for strategies.
type Metadata struct {
	// Tasks maps task id to its snapshot record.
	Tasks map[string]task.Task

	// Graph is the dependency graph the layers were computed from.
	Graph *graph.DependencyGraph
}

// Strategy reorders ready sets without violating the dependency partial order.
type Strategy interface {
	// Name returns the strategy's identifier.
	Name() Name

	// Description returns a one-line human-readable summary.
	Description() string

	// Reorder returns the (possibly reordered or re-split) ready sets.
	// The input slice is never mutated.
	Reorder(layers []graph.ReadySet, meta *Metadata) []graph.ReadySet
}

// ForName returns the strategy registered under the given name.
// An unknown name is a configuration error reported to the caller before any
// graph work begins, never silently defaulted.
func ForName(name string) (Strategy, error) {
	switch Name(name) {
	case Topological:
		return topological{}, nil
	case RiskFirst:
		return riskFirst{}, nil
	case FoundationalFirst:
		return foundationalFirst{scorer: DefaultScorer}, nil
	case ParallelMaximizing:
		return parallelMaximizing{}, nil
	default:
		return nil, errors.NewConfigurationError("strategy", name, errors.ErrUnknownStrategy)
	}
}

// Describe returns the description for a strategy name, or an empty string
// for unknown names.
func Describe(name Name) string {
	s, err := ForName(string(name))
	if err != nil {
		return ""
	}
	return s.Description()
}

// copyLayers deep-copies the layer slices so strategies never alias or
// mutate their input.
func copyLayers(layers []graph.ReadySet) []graph.ReadySet {
	out := make([]graph.ReadySet, len(layers))
	for i, layer := range layers {
		out[i] = append(graph.ReadySet(nil), layer...)
	}
	return out
}

// -----------------------------------------------------------------------------
// topological
// -----------------------------------------------------------------------------

type topological struct{}

func (topological) Name() Name { return Topological }

func (topological) Description() string {
	return "dependency order only; each layer may run fully parallel"
}

func (topological) Reorder(layers []graph.ReadySet, _ *Metadata) []graph.ReadySet {
	return copyLayers(layers)
}

// -----------------------------------------------------------------------------
// risk_first
// -----------------------------------------------------------------------------

type riskFirst struct{}

func (riskFirst) Name() Name { return RiskFirst }

func (riskFirst) Description() string {
	return "higher-urgency priority classes scheduled ahead of same-layer peers"
}

// Reorder sorts each layer by priority class (lower value first), breaking
// ties by id. A high-priority task blocked by a lower-priority dependency
// still waits: layering already placed every task at the earliest layer its
// dependencies allow, so only within-layer order changes.
func (riskFirst) Reorder(layers []graph.ReadySet, meta *Metadata) []graph.ReadySet {
	out := copyLayers(layers)
	for _, layer := range out {
		sort.SliceStable(layer, func(i, j int) bool {
			pi, pj := priorityOf(meta, layer[i]), priorityOf(meta, layer[j])
			if pi != pj {
				return pi < pj
			}
			return layer[i] < layer[j]
		})
	}
	return out
}

// priorityOf returns the task's declared priority, or the lowest urgency
// class for ids missing from the metadata.
func priorityOf(meta *Metadata, id string) int {
	if meta == nil {
		return task.LowestPriority
	}
	t, ok := meta.Tasks[id]
	if !ok {
		return task.LowestPriority
	}
	return t.Priority
}

// -----------------------------------------------------------------------------
// foundational_first
// -----------------------------------------------------------------------------

type foundationalFirst struct {
	scorer Scorer
}

func (foundationalFirst) Name() Name { return FoundationalFirst }

func (foundationalFirst) Description() string {
	return "schema/infrastructure/setup work pulled ahead of its layer peers"
}

// Reorder moves foundational tasks to the front of their layer. Layer
// membership is untouched: layering already placed every task at the
// earliest position its dependencies permit, so pulling a foundational task
// forward within its layer is the strongest move that preserves the partial
// order. Higher scores sort earlier; ties break by id.
func (s foundationalFirst) Reorder(layers []graph.ReadySet, meta *Metadata) []graph.ReadySet {
	scorer := s.scorer
	if scorer == nil {
		scorer = DefaultScorer
	}

	out := copyLayers(layers)
	for _, layer := range out {
		scores := make(map[string]int, len(layer))
		for _, id := range layer {
			if meta != nil {
				if t, ok := meta.Tasks[id]; ok {
					scores[id] = scorer(t)
				}
			}
		}
		sort.SliceStable(layer, func(i, j int) bool {
			si, sj := scores[layer[i]], scores[layer[j]]
			if si != sj {
				return si > sj
			}
			return layer[i] < layer[j]
		})
	}
	return out
}

// -----------------------------------------------------------------------------
// parallel_maximizing
// -----------------------------------------------------------------------------

type parallelMaximizing struct{}

func (parallelMaximizing) Name() Name { return ParallelMaximizing }

func (parallelMaximizing) Description() string {
	return "independent ready sets merged into larger parallel batches"
}

// Reorder greedily merges consecutive layers into one batch whenever no
// member of the incoming layer depends, directly or transitively, on any
// member of the batch accumulated so far. Because layers arrive in
// topological order, checking that single direction is sufficient.
func (parallelMaximizing) Reorder(layers []graph.ReadySet, meta *Metadata) []graph.ReadySet {
	if len(layers) == 0 {
		return nil
	}
	if meta == nil || meta.Graph == nil {
		return copyLayers(layers)
	}

	var out []graph.ReadySet
	batch := append(graph.ReadySet(nil), layers[0]...)

	for _, layer := range layers[1:] {
		if dependsOnAny(meta.Graph, layer, batch) {
			sort.Strings(batch)
			out = append(out, batch)
			batch = append(graph.ReadySet(nil), layer...)
			continue
		}
		batch = append(batch, layer...)
	}

	sort.Strings(batch)
	out = append(out, batch)
	return out
}

// dependsOnAny reports whether any member of layer depends on any member of
// batch.
func dependsOnAny(g *graph.DependencyGraph, layer, batch graph.ReadySet) bool {
	for _, id := range layer {
		for _, prior := range batch {
			if g.DependsOn(id, prior) {
				return true
			}
		}
	}
	return false
}
