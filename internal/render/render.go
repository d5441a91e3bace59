// Package render turns execution plans into terminal output, either styled
// text or machine-readable JSON.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/planner"
	"github.com/planora/planora/internal/task"
)

// Format selects the plan output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.NewConfigurationError("output.format", s, errors.ErrUnknownOutputFormat)
	}
}

// Renderer renders plans for the terminal.
type Renderer struct {
	color bool

	titleStyle    lipgloss.Style
	groupStyle    lipgloss.Style
	parallelStyle lipgloss.Style
	taskStyle     lipgloss.Style
	mutedStyle    lipgloss.Style
	warnStyle     lipgloss.Style
}

// NewRenderer creates a renderer. When color is false all styles collapse to
// plain text.
func NewRenderer(color bool) *Renderer {
	r := &Renderer{color: color}
	if !color {
		plain := lipgloss.NewStyle()
		r.titleStyle = plain
		r.groupStyle = plain
		r.parallelStyle = plain
		r.taskStyle = plain
		r.mutedStyle = plain
		r.warnStyle = plain
		return r
	}

	r.titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	r.groupStyle = lipgloss.NewStyle().Bold(true)
	r.parallelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	r.taskStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	r.mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	r.warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	return r
}

// Plan renders one plan in the requested format.
func (r *Renderer) Plan(plan *planner.ExecutionPlan, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case FormatText:
		return r.planText(plan), nil
	default:
		return "", errors.NewConfigurationError("output.format", string(format), errors.ErrUnknownOutputFormat)
	}
}

func (r *Renderer) planText(plan *planner.ExecutionPlan) string {
	var b strings.Builder

	b.WriteString(r.titleStyle.Render(fmt.Sprintf("Execution plan (%s)", plan.Strategy)))
	b.WriteString("\n")
	b.WriteString(r.mutedStyle.Render(fmt.Sprintf(
		"%d tasks, %d groups, %d parallelizable, critical path %d",
		plan.TotalTasks, plan.TotalGroups, plan.ParallelizableGroups, plan.CriticalPathLength)))
	b.WriteString("\n\n")

	if plan.TotalTasks == 0 {
		b.WriteString(r.warnStyle.Render("No schedulable tasks."))
		b.WriteString("\n")
		return b.String()
	}

	for _, g := range plan.Groups {
		label := fmt.Sprintf("%d.", g.Index+1)
		if g.Kind == planner.KindParallel {
			b.WriteString(r.groupStyle.Render(label))
			b.WriteString(" ")
			b.WriteString(r.parallelStyle.Render(fmt.Sprintf("[parallel x%d]", len(g.TaskIDs))))
		} else {
			b.WriteString(r.groupStyle.Render(label))
		}
		b.WriteString("\n")
		for _, id := range g.TaskIDs {
			b.WriteString("   ")
			b.WriteString(r.taskStyle.Render(id))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(r.mutedStyle.Render(strings.TrimRight(plan.Rationale, "\n")))
	b.WriteString("\n")
	return b.String()
}

// Comparison renders the side-by-side strategy summary table.
func (r *Renderer) Comparison(results []planner.Comparison) string {
	var b strings.Builder

	b.WriteString(r.titleStyle.Render("Strategy comparison"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%-22s %8s %8s %10s %9s\n",
		"strategy", "tasks", "groups", "parallel", "critical"))

	for _, res := range results {
		if res.Err != nil {
			b.WriteString(fmt.Sprintf("%-22s %s\n",
				res.Strategy, r.warnStyle.Render("error: "+res.Err.Error())))
			continue
		}
		b.WriteString(fmt.Sprintf("%-22s %8d %8d %10d %9d\n",
			res.Strategy,
			res.Plan.TotalTasks,
			res.Plan.TotalGroups,
			res.Plan.ParallelizableGroups,
			res.Plan.CriticalPathLength))
	}

	return b.String()
}

// Warnings renders normalization warnings, one per line.
func (r *Renderer) Warnings(warnings []task.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range warnings {
		line := "warning: " + w.Message
		if w.TaskID != "" {
			line = fmt.Sprintf("warning: %s (task %s)", w.Message, w.TaskID)
		}
		b.WriteString(r.warnStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
