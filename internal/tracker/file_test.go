package tracker

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/task"
)

func writeTaskFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestFileSourceJSON(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []task.RawRecord
	}{
		{
			name: "bare list",
			file: "tasks.json",
			content: `[
				{"id": "task-a", "title": "Set up schema", "status": "open"},
				{"id": "task-b", "title": "Add endpoint", "depends_on": ["task-a"]}
			]`,
			want: []task.RawRecord{
				{ID: "task-a", Title: "Set up schema", Status: "open"},
				{ID: "task-b", Title: "Add endpoint", DependsOn: []string{"task-a"}},
			},
		},
		{
			name:    "wrapped document",
			file:    "tasks.json",
			content: `{"tasks": [{"id": "task-a", "title": "Only one"}]}`,
			want:    []task.RawRecord{{ID: "task-a", Title: "Only one"}},
		},
		{
			name: "yaml list",
			file: "tasks.yaml",
			content: `- id: task-a
  title: Set up schema
  priority: 1
- id: task-b
  depends_on: [task-a]
`,
			want: []task.RawRecord{
				{ID: "task-a", Title: "Set up schema", Priority: intPtr(1)},
				{ID: "task-b", DependsOn: []string{"task-a"}},
			},
		},
		{
			name: "yaml wrapped document",
			file: "tasks.yml",
			content: `tasks:
  - id: task-a
    title: Only one
`,
			want: []task.RawRecord{{ID: "task-a", Title: "Only one"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTaskFile(t, tt.file, tt.content)
			got, err := NewFileSource(path, nil).Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Fetch() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), nil)
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, errors.ErrTaskFileNotFound) {
		t.Errorf("Fetch() error = %v, want ErrTaskFileNotFound", err)
	}
}

func TestFileSourceMalformedContent(t *testing.T) {
	path := writeTaskFile(t, "tasks.json", `{"tasks": "not a list"`)
	_, err := NewFileSource(path, nil).Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() error = nil, want parse failure")
	}
	var trackerErr *errors.TrackerError
	if !errors.As(err, &trackerErr) {
		t.Errorf("error %v is not a TrackerError", err)
	}
}

func TestFileSourceCancelledContext(t *testing.T) {
	path := writeTaskFile(t, "tasks.json", `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileSource(path, nil).Fetch(ctx); err == nil {
		t.Error("Fetch() with cancelled context should fail")
	}
}

func intPtr(v int) *int {
	return &v
}
