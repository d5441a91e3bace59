package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planora/planora/internal/planner"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PLANORA_LOGGING_ENABLED", "false")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTasks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlanCommandJSONOutput(t *testing.T) {
	path := writeTasks(t, `[
		{"id": "task-a", "title": "Schema"},
		{"id": "task-b", "title": "Endpoint", "depends_on": ["task-a"]},
		{"id": "task-c", "title": "Docs", "depends_on": ["task-a"]}
	]`)

	out, _, err := execute(t, "plan", "--file", path, "--output", "json", "--no-color")
	if err != nil {
		t.Fatalf("plan command failed: %v", err)
	}

	var plan planner.ExecutionPlan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("output is not a JSON plan: %v\n%s", err, out)
	}
	if plan.TotalTasks != 3 || plan.TotalGroups != 2 {
		t.Errorf("plan totals = (%d tasks, %d groups), want (3, 2)",
			plan.TotalTasks, plan.TotalGroups)
	}
}

func TestCompareCommand(t *testing.T) {
	path := writeTasks(t, `[
		{"id": "task-a"},
		{"id": "task-b", "depends_on": ["task-a"]}
	]`)

	out, _, err := execute(t, "compare", "--file", path, "--no-color")
	if err != nil {
		t.Fatalf("compare command failed: %v", err)
	}
	for _, name := range []string{"topological", "risk_first", "foundational_first", "parallel_maximizing"} {
		if !strings.Contains(out, name) {
			t.Errorf("comparison missing strategy %s:\n%s", name, out)
		}
	}
}

func TestStrategiesCommand(t *testing.T) {
	out, _, err := execute(t, "strategies")
	if err != nil {
		t.Fatalf("strategies command failed: %v", err)
	}
	lines := strings.Count(strings.TrimRight(out, "\n"), "\n") + 1
	if lines != 4 {
		t.Errorf("strategies listed %d lines, want 4:\n%s", lines, out)
	}
}

// Runs last: setting --strategy marks the bound flag as changed, and that
// value would shadow the default in any command executed afterwards.
func TestPlanCommandUnknownStrategy(t *testing.T) {
	path := writeTasks(t, `[{"id": "task-a"}]`)

	_, _, err := execute(t, "plan", "--file", path, "--strategy", "alphabetical", "--output", "text")
	if err == nil {
		t.Fatal("plan command accepted an unknown strategy")
	}
	if !strings.Contains(err.Error(), "planner.strategy") {
		t.Errorf("error = %v, want mention of planner.strategy", err)
	}
}
