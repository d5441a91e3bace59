// Package planner assembles execution plans for interdependent tasks.
//
// It is the pipeline entry point behind the whole system: normalize the
// tracker snapshot, build the dependency graph, layer it topologically,
// apply the configured ordering strategy, split conflicting batches, and
// assemble the final ExecutionPlan with summary statistics and a
// human-readable rationale.
//
// A planning call is a pure, synchronous transformation: no I/O, no shared
// state across calls, and byte-identical output for identical input.
package planner

import (
	"sort"

	"github.com/planora/planora/internal/conflict"
	"github.com/planora/planora/internal/graph"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/strategy"
	"github.com/planora/planora/internal/task"
)

// GroupKind tags an execution group as sequential or parallel.
type GroupKind string

const (
	// KindSequential marks a singleton group.
	KindSequential GroupKind = "sequential"

	// KindParallel marks a group whose members may be dispatched together.
	KindParallel GroupKind = "parallel"
)

// ExecutionGroup is the unit of the final plan: one or more task ids that
// are safe to dispatch together, guaranteed conflict-free.
type ExecutionGroup struct {
	// Index is the zero-based position of this group in the plan.
	Index int `json:"index"`

	// Kind is sequential for singletons, parallel otherwise.
	Kind GroupKind `json:"kind"`

	// TaskIDs lists the member task ids in scheduling order.
	TaskIDs []string `json:"task_ids"`

	// Reason summarizes why these members were grouped this way. Feeds
	// the plan rationale; auditability only, never control flow.
	Reason string `json:"reason,omitempty"`
}

// ExecutionPlan is the final artifact of a planning run. It is immutable
// once produced and serializable to JSON without loss.
type ExecutionPlan struct {
	// Strategy is the name of the ordering strategy that produced the plan.
	Strategy string `json:"strategy"`

	// TotalTasks is the number of scheduled tasks across all groups.
	TotalTasks int `json:"total_tasks"`

	// TotalGroups is the number of execution groups.
	TotalGroups int `json:"total_groups"`

	// ParallelizableGroups counts groups with more than one member.
	ParallelizableGroups int `json:"parallelizable_groups"`

	// CriticalPathLength is the plan length in groups: each group is one
	// synchronization point.
	CriticalPathLength int `json:"critical_path_length"`

	// Sequence is the ordered list of groups, each an ordered list of task
	// ids. Redundant with Groups but convenient for external consumers.
	Sequence [][]string `json:"sequence"`

	// Groups carries the full group records including kind and reasoning.
	Groups []ExecutionGroup `json:"groups"`

	// Rationale is a deterministic textual summary of the ordering and
	// grouping decisions.
	Rationale string `json:"rationale"`
}

// Options is the configuration surface consumed from the caller.
type Options struct {
	// Strategy names one of the four ordering strategies.
	Strategy string

	// DetectConflicts enables the conflict detector; when false, ready
	// sets are emitted as-is.
	DetectConflicts bool
}

// Planner computes execution plans. Safe for concurrent use: each Plan call
// owns its own graph, ready sets, and plan values.
type Planner struct {
	logger   *logging.Logger
	detector *conflict.Detector
}

// Option configures a Planner.
type Option func(*Planner)

// WithDetector replaces the default conflict detector.
func WithDetector(d *conflict.Detector) Option {
	return func(p *Planner) {
		p.detector = d
	}
}

// New creates a Planner. A nil logger is replaced with a discard logger.
func New(logger *logging.Logger, opts ...Option) *Planner {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	p := &Planner{
		logger:   logger,
		detector: conflict.NewDetector(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan computes an execution plan from a raw tracker snapshot.
//
// Failure modes:
//   - an unknown strategy name is rejected as a ConfigurationError before
//     any graph work begins
//   - an unresolvable dependency cycle aborts the call with a CycleError
//     naming the stuck tasks
//
// Malformed records (missing id) never abort the run: they are skipped and
// reported in the returned warnings, and the plan is computed from the valid
// remainder.
func (p *Planner) Plan(records []task.RawRecord, opts Options) (*ExecutionPlan, []task.Warning, error) {
	strat, err := strategy.ForName(opts.Strategy)
	if err != nil {
		return nil, nil, err
	}
	log := p.logger.WithStrategy(string(strat.Name()))

	tasks, warnings := task.Normalize(records)
	if len(warnings) > 0 {
		log.Warn("skipped malformed task records", "count", len(warnings))
	}

	g := graph.Build(tasks)
	layers, err := g.Layer()
	if err != nil {
		log.Error("layering failed", "error", err)
		return nil, warnings, err
	}

	meta := &strategy.Metadata{
		Tasks: task.Index(tasks),
		Graph: g,
	}
	layers = strat.Reorder(layers, meta)

	groups := p.assembleGroups(layers, meta, opts)
	plan := p.assemblePlan(strat, groups, opts)

	log.Info("plan computed",
		"total_tasks", plan.TotalTasks,
		"total_groups", plan.TotalGroups,
		"parallelizable_groups", plan.ParallelizableGroups)

	return plan, warnings, nil
}

// assembleGroups turns the strategy's ready sets into conflict-free
// execution groups.
func (p *Planner) assembleGroups(layers []graph.ReadySet, meta *strategy.Metadata, opts Options) []ExecutionGroup {
	var groups []ExecutionGroup

	for layerIdx, layer := range layers {
		if !opts.DetectConflicts || len(layer) < 2 {
			groups = append(groups, ExecutionGroup{
				Index:   len(groups),
				Kind:    kindFor(len(layer)),
				TaskIDs: append([]string(nil), layer...),
				Reason:  layerReason(layerIdx, len(layer)),
			})
			continue
		}

		members := make([]task.Task, 0, len(layer))
		rank := make(map[string]int, len(layer))
		for i, id := range layer {
			members = append(members, meta.Tasks[id])
			rank[id] = i
		}

		// Split orders by task id; restore the strategy's ordering inside
		// each group and schedule groups by their best-ranked member.
		split := p.detector.Split(members)
		for _, ids := range split {
			sort.Slice(ids, func(a, b int) bool { return rank[ids[a]] < rank[ids[b]] })
		}
		sort.SliceStable(split, func(a, b int) bool {
			return rank[split[a][0]] < rank[split[b][0]]
		})

		for _, ids := range split {
			reason := layerReason(layerIdx, len(ids))
			if len(split) > 1 {
				reason = splitReason(layerIdx, len(layer))
			}
			groups = append(groups, ExecutionGroup{
				Index:   len(groups),
				Kind:    kindFor(len(ids)),
				TaskIDs: ids,
				Reason:  reason,
			})
		}
	}

	return groups
}

// assemblePlan computes the summary statistics and rationale.
func (p *Planner) assemblePlan(strat strategy.Strategy, groups []ExecutionGroup, opts Options) *ExecutionPlan {
	plan := &ExecutionPlan{
		Strategy: string(strat.Name()),
		Groups:   groups,
		Sequence: make([][]string, 0, len(groups)),
	}

	for _, g := range groups {
		plan.Sequence = append(plan.Sequence, g.TaskIDs)
		plan.TotalTasks += len(g.TaskIDs)
		if len(g.TaskIDs) > 1 {
			plan.ParallelizableGroups++
		}
	}
	plan.TotalGroups = len(groups)
	plan.CriticalPathLength = len(groups)
	plan.Rationale = buildRationale(strat, plan, opts)

	return plan
}

// kindFor returns the group kind for a member count.
func kindFor(size int) GroupKind {
	if size > 1 {
		return KindParallel
	}
	return KindSequential
}
