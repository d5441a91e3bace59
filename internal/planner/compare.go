package planner

import (
	"github.com/sourcegraph/conc"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/strategy"
	"github.com/planora/planora/internal/task"
)

// Comparison holds one strategy's outcome in a side-by-side run.
type Comparison struct {
	// Strategy is the strategy name this entry was planned with.
	Strategy string `json:"strategy"`

	// Plan is the resulting plan, nil when planning failed.
	Plan *ExecutionPlan `json:"plan,omitempty"`

	// Err is the planning failure, nil on success.
	Err error `json:"-"`
}

// Compare plans the same snapshot under every known strategy concurrently
// and returns the results in strategy registration order.
//
// Unlike Plan, Compare rejects an empty snapshot: comparing empty plans
// tells the caller nothing.
func (p *Planner) Compare(records []task.RawRecord, detectConflicts bool) ([]Comparison, []task.Warning, error) {
	tasks, warnings := task.Normalize(records)
	if len(tasks) == 0 {
		return nil, warnings, errors.NewPlannerError("nothing to compare", errors.ErrNoTasks)
	}

	names := strategy.All()
	results := make([]Comparison, len(names))

	var wg conc.WaitGroup
	for i, name := range names {
		wg.Go(func() {
			plan, _, err := p.Plan(records, Options{
				Strategy:        string(name),
				DetectConflicts: detectConflicts,
			})
			results[i] = Comparison{Strategy: string(name), Plan: plan, Err: err}
		})
	}
	wg.Wait()

	return results, warnings, nil
}
