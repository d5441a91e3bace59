package planner

import (
	"fmt"
	"strings"

	"github.com/planora/planora/internal/strategy"
)

// layerReason describes an unsplit group derived from one ready set.
func layerReason(layerIdx, size int) string {
	if layerIdx == 0 {
		if size > 1 {
			return "no unmet dependencies; members are mutually independent"
		}
		return "no unmet dependencies"
	}
	if size > 1 {
		return fmt.Sprintf("dependencies satisfied by groups before layer %d; members are mutually independent", layerIdx)
	}
	return fmt.Sprintf("dependencies satisfied by groups before layer %d", layerIdx)
}

// splitReason describes a group carved out of a larger ready set because of
// shared resource references.
func splitReason(layerIdx, layerSize int) string {
	return fmt.Sprintf("split from a ready set of %d in layer %d to keep conflicting tasks apart", layerSize, layerIdx)
}

// buildRationale renders the deterministic plan summary. Same plan, same
// text, always.
func buildRationale(strat strategy.Strategy, plan *ExecutionPlan, opts Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Strategy %q: %s.\n", strat.Name(), strat.Description())
	if plan.TotalTasks == 0 {
		b.WriteString("No schedulable tasks; plan is empty.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Scheduled %d tasks into %d groups; %d groups allow parallel work; critical path spans %d groups.\n",
		plan.TotalTasks, plan.TotalGroups, plan.ParallelizableGroups, plan.CriticalPathLength)
	if opts.DetectConflicts {
		b.WriteString("Conflict detection on: tasks referencing the same files never share a group.\n")
	} else {
		b.WriteString("Conflict detection off: groups mirror dependency layers as-is.\n")
	}

	for _, g := range plan.Groups {
		fmt.Fprintf(&b, "  group %d [%s] %s: %s\n",
			g.Index+1, g.Kind, strings.Join(g.TaskIDs, ", "), g.Reason)
	}

	return b.String()
}
