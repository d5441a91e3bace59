package task

import (
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		records      []RawRecord
		wantIDs      []string
		wantWarnings int
	}{
		{
			name:    "empty input",
			records: nil,
			wantIDs: []string{},
		},
		{
			name: "valid records pass through in order",
			records: []RawRecord{
				{ID: "task-b", Status: "open"},
				{ID: "task-a", Status: "open"},
			},
			wantIDs: []string{"task-b", "task-a"},
		},
		{
			name: "closed tasks are dropped silently",
			records: []RawRecord{
				{ID: "task-1", Status: "closed"},
				{ID: "task-2", Status: "open"},
			},
			wantIDs: []string{"task-2"},
		},
		{
			name: "missing id is a warning, not a crash",
			records: []RawRecord{
				{ID: "", Title: "orphan"},
				{ID: "task-1"},
			},
			wantIDs:      []string{"task-1"},
			wantWarnings: 1,
		},
		{
			name: "duplicate ids keep the first record",
			records: []RawRecord{
				{ID: "task-1", Title: "first"},
				{ID: "task-1", Title: "second"},
			},
			wantIDs:      []string{"task-1"},
			wantWarnings: 1,
		},
		{
			name: "unknown status treated as open with warning",
			records: []RawRecord{
				{ID: "task-1", Status: "in_review"},
			},
			wantIDs:      []string{"task-1"},
			wantWarnings: 1,
		},
		{
			name: "self dependency dropped with warning",
			records: []RawRecord{
				{ID: "task-1", DependsOn: []string{"task-1", "task-2"}},
				{ID: "task-2"},
			},
			wantIDs:      []string{"task-1", "task-2"},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, warnings := Normalize(tt.records)

			gotIDs := make([]string, 0, len(tasks))
			for _, task := range tasks {
				gotIDs = append(gotIDs, task.ID)
			}
			if !reflect.DeepEqual(gotIDs, tt.wantIDs) {
				t.Errorf("Normalize() ids = %v, want %v", gotIDs, tt.wantIDs)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("Normalize() warnings = %v, want %d", warnings, tt.wantWarnings)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	tasks, warnings := Normalize([]RawRecord{
		{ID: "task-1"},
		{ID: "task-2", Priority: intPtr(0)},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if tasks[0].Priority != LowestPriority {
		t.Errorf("missing priority should default to LowestPriority, got %d", tasks[0].Priority)
	}
	if tasks[0].Status != StatusOpen {
		t.Errorf("missing status should default to open, got %s", tasks[0].Status)
	}
	if tasks[0].Description != "" {
		t.Errorf("missing description should default to empty, got %q", tasks[0].Description)
	}
	if tasks[1].Priority != 0 {
		t.Errorf("explicit priority 0 must be preserved, got %d", tasks[1].Priority)
	}
}

func TestNormalizeDropsSelfDepOnly(t *testing.T) {
	tasks, _ := Normalize([]RawRecord{
		{ID: "task-1", DependsOn: []string{"task-1", "task-2", " "}},
		{ID: "task-2"},
	})
	if !reflect.DeepEqual(tasks[0].DependsOn, []string{"task-2"}) {
		t.Errorf("DependsOn = %v, want [task-2]", tasks[0].DependsOn)
	}
}

func TestStatusIsValid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusOpen, true},
		{StatusClosed, true},
		{Status("archived"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexAndIDs(t *testing.T) {
	tasks := []Task{
		{ID: "task-c"},
		{ID: "task-a"},
		{ID: "task-b"},
	}

	index := Index(tasks)
	if len(index) != 3 {
		t.Errorf("Index() has %d entries, want 3", len(index))
	}
	if _, ok := index["task-a"]; !ok {
		t.Error("Index() missing task-a")
	}

	ids := IDs(tasks)
	want := []string{"task-a", "task-b", "task-c"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("IDs() = %v, want %v (sorted)", ids, want)
	}
}

func TestTaskHelpers(t *testing.T) {
	task := Task{ID: "task-1", Status: StatusOpen, DependsOn: []string{"task-0"}}
	if !task.HasDependencies() {
		t.Error("HasDependencies() = false, want true")
	}
	if !task.IsOpen() {
		t.Error("IsOpen() = false, want true")
	}

	closed := Task{ID: "task-2", Status: StatusClosed}
	if closed.IsOpen() {
		t.Error("closed task reports IsOpen() = true")
	}
}
