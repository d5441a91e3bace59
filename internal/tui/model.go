// Package tui provides an interactive terminal browser for execution plans.
//
// The browser shows one execution group at a time with its members and
// grouping reason, plus the plan totals and rationale in a scrollable body.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planora/planora/internal/planner"
	"github.com/planora/planora/internal/util"
)

// Model is the Bubbletea model for the plan browser.
type Model struct {
	plan *planner.ExecutionPlan

	groupIndex    int
	showRationale bool
	viewport      viewport.Model
	ready         bool
	width         int
	height        int
	quitting      bool
}

// NewModel creates a browser over the given plan.
func NewModel(plan *planner.ExecutionPlan) Model {
	return Model{plan: plan}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-headerHeight-footerHeight, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = bodyHeight
		}
		m.viewport.SetContent(m.bodyContent())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "right", "l", "n":
		if m.groupIndex < len(m.plan.Groups)-1 {
			m.groupIndex++
			m.viewport.SetContent(m.bodyContent())
			m.viewport.GotoTop()
		}
		return m, nil

	case "left", "h", "p":
		if m.groupIndex > 0 {
			m.groupIndex--
			m.viewport.SetContent(m.bodyContent())
			m.viewport.GotoTop()
		}
		return m, nil

	case "r":
		m.showRationale = !m.showRationale
		m.viewport.SetContent(m.bodyContent())
		m.viewport.GotoTop()
		return m, nil

	case "g":
		m.viewport.GotoTop()
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

const (
	headerHeight = 3
	footerHeight = 2
)

func (m Model) headerView() string {
	title := titleStyle.Render(fmt.Sprintf("Execution plan (%s)", m.plan.Strategy))
	stats := mutedStyle.Render(fmt.Sprintf("  %d tasks in %d groups, critical path %d",
		m.plan.TotalTasks, m.plan.TotalGroups, m.plan.CriticalPathLength))
	line := strings.Repeat("─", max(m.width, 1))
	return title + stats + "\n" + mutedStyle.Render(line) + "\n"
}

func (m Model) footerView() string {
	help := "←/→ groups · r rationale · g/G top/bottom · q quit"
	return mutedStyle.Render(help)
}

// bodyContent renders the selected group, or the rationale when toggled.
func (m Model) bodyContent() string {
	if m.showRationale {
		return m.plan.Rationale
	}
	if len(m.plan.Groups) == 0 {
		return mutedStyle.Render("No schedulable tasks.")
	}

	g := m.plan.Groups[m.groupIndex]
	var b strings.Builder

	label := fmt.Sprintf("Group %d of %d", g.Index+1, len(m.plan.Groups))
	if g.Kind == planner.KindParallel {
		label += parallelStyle.Render(fmt.Sprintf("  [parallel x%d]", len(g.TaskIDs)))
	}
	b.WriteString(groupStyle.Render(label))
	b.WriteString("\n\n")

	width := max(m.width-4, 20)
	for _, id := range g.TaskIDs {
		b.WriteString("  ")
		b.WriteString(util.TruncateANSI(taskStyle.Render(id), width))
		b.WriteString("\n")
	}

	if g.Reason != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(g.Reason))
		b.WriteString("\n")
	}

	return b.String()
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	groupStyle    = lipgloss.NewStyle().Bold(true)
	parallelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	taskStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run starts the interactive browser and blocks until the user quits.
func Run(plan *planner.ExecutionPlan) error {
	program := tea.NewProgram(NewModel(plan), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
