package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planora/planora/internal/planner"
	"github.com/planora/planora/internal/task"
)

func browserPlan(t *testing.T) *planner.ExecutionPlan {
	t.Helper()
	plan, _, err := planner.New(nil).Plan([]task.RawRecord{
		{ID: "task-a", Status: "open"},
		{ID: "task-b", Status: "open", DependsOn: []string{"task-a"}},
		{ID: "task-c", Status: "open", DependsOn: []string{"task-a"}},
	}, planner.Options{Strategy: "topological", DetectConflicts: true})
	if err != nil {
		t.Fatalf("building plan: %v", err)
	}
	return plan
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestViewShowsFirstGroup(t *testing.T) {
	m := sized(t, NewModel(browserPlan(t)))
	view := m.View()

	if !strings.Contains(view, "Execution plan (topological)") {
		t.Errorf("view missing title:\n%s", view)
	}
	if !strings.Contains(view, "Group 1 of 2") {
		t.Errorf("view missing first group:\n%s", view)
	}
	if !strings.Contains(view, "task-a") {
		t.Errorf("view missing first group member:\n%s", view)
	}
}

func TestGroupNavigation(t *testing.T) {
	m := sized(t, NewModel(browserPlan(t)))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if !strings.Contains(m.View(), "Group 2 of 2") {
		t.Errorf("right arrow did not advance:\n%s", m.View())
	}

	// Already at the last group, must not run past the end.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if !strings.Contains(m.View(), "Group 2 of 2") {
		t.Errorf("right arrow moved past last group:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	if !strings.Contains(m.View(), "Group 1 of 2") {
		t.Errorf("left arrow did not go back:\n%s", m.View())
	}
}

func TestRationaleToggle(t *testing.T) {
	m := sized(t, NewModel(browserPlan(t)))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if !strings.Contains(m.View(), "Strategy \"topological\"") {
		t.Errorf("rationale toggle did not show rationale:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if !strings.Contains(m.View(), "Group 1 of 2") {
		t.Errorf("second toggle did not restore group view:\n%s", m.View())
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := sized(t, NewModel(browserPlan(t)))
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Errorf("key %v should quit", k)
		}
	}
}
