package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("strategy", "speed_first", ErrUnknownStrategy)

	if !Is(err, ErrUnknownStrategy) {
		t.Error("expected error to match ErrUnknownStrategy")
	}

	var confErr *ConfigurationError
	if !As(err, &confErr) {
		t.Fatal("expected error to be a ConfigurationError")
	}
	if confErr.Field != "strategy" {
		t.Errorf("Field = %q, want %q", confErr.Field, "strategy")
	}
	if confErr.Value != "speed_first" {
		t.Errorf("Value = %q, want %q", confErr.Value, "speed_first")
	}

	msg := err.Error()
	if !strings.Contains(msg, "speed_first") || !strings.Contains(msg, "unknown ordering strategy") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestCycleError(t *testing.T) {
	err := NewCycleError([]string{"task-a", "task-b"})

	if !Is(err, ErrDependencyCycle) {
		t.Error("expected error to match ErrDependencyCycle")
	}
	if !IsCycle(err) {
		t.Error("IsCycle() = false, want true")
	}

	var cycleErr *CycleError
	if !As(err, &cycleErr) {
		t.Fatal("expected error to be a CycleError")
	}
	if len(cycleErr.TaskIDs) != 2 {
		t.Errorf("TaskIDs = %v, want 2 entries", cycleErr.TaskIDs)
	}

	msg := err.Error()
	if !strings.Contains(msg, "task-a") || !strings.Contains(msg, "task-b") {
		t.Errorf("cycle message should name the tasks, got: %s", msg)
	}
}

func TestCycleErrorEmpty(t *testing.T) {
	err := NewCycleError(nil)
	if got := err.Error(); got != "dependency cycle detected" {
		t.Errorf("Error() = %q", got)
	}
}

func TestPlannerError(t *testing.T) {
	err := NewPlannerError("empty plan", ErrNoTasks).WithStrategy("topological")

	if !Is(err, ErrNoTasks) {
		t.Error("expected error to match ErrNoTasks")
	}

	msg := err.Error()
	if !strings.Contains(msg, "strategy=topological") {
		t.Errorf("expected strategy context in message, got: %s", msg)
	}
}

func TestTrackerError(t *testing.T) {
	err := NewTrackerError("fetch failed", ErrTrackerUnavailable).WithSource("github")

	if !Is(err, ErrTrackerUnavailable) {
		t.Error("expected error to match ErrTrackerUnavailable")
	}
	if !strings.Contains(err.Error(), "source=github") {
		t.Errorf("expected source context in message, got: %s", err.Error())
	}
}

func TestErrorWrappedThroughFmt(t *testing.T) {
	inner := NewCycleError([]string{"a"})
	wrapped := fmt.Errorf("planning failed: %w", inner)

	if !Is(wrapped, ErrDependencyCycle) {
		t.Error("sentinel should survive fmt.Errorf wrapping")
	}

	var cycleErr *CycleError
	if !As(wrapped, &cycleErr) {
		t.Error("typed error should survive fmt.Errorf wrapping")
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"configuration error", NewConfigurationError("strategy", "bogus", ErrUnknownStrategy), true},
		{"cycle error", NewCycleError([]string{"a"}), false},
		{"plain error", New("something"), false},
		{"wrapped configuration error", fmt.Errorf("ctx: %w", NewConfigurationError("format", "xml", ErrUnknownOutputFormat)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfiguration(tt.err); got != tt.want {
				t.Errorf("IsConfiguration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"cycle is critical", NewCycleError([]string{"a"}), SeverityCritical},
		{"configuration is error", NewConfigurationError("strategy", "x", ErrUnknownStrategy), SeverityError},
		{"plain error defaults", New("boom"), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeverityOf(tt.err); got != tt.want {
				t.Errorf("SeverityOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityWarning.String() != "warning" || SeverityCritical.String() != "critical" {
		t.Error("unexpected severity strings")
	}
	if Severity(99).String() != "unknown" {
		t.Error("out-of-range severity should be unknown")
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(NewCycleError([]string{"a"})) {
		t.Error("cycle errors are user facing")
	}
	if IsUserFacing(New("internal")) {
		t.Error("plain errors are not user facing")
	}
}
