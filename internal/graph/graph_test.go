package graph

import (
	"reflect"
	"testing"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/task"
)

func mkTasks(entries ...[2]any) []task.Task {
	tasks := make([]task.Task, 0, len(entries))
	for _, e := range entries {
		id := e[0].(string)
		var deps []string
		if e[1] != nil {
			deps = e[1].([]string)
		}
		tasks = append(tasks, task.Task{ID: id, Status: task.StatusOpen, DependsOn: deps})
	}
	return tasks
}

func TestBuild(t *testing.T) {
	tasks := mkTasks(
		[2]any{"task-a", nil},
		[2]any{"task-b", []string{"task-a"}},
		[2]any{"task-c", []string{"task-a", "task-b"}},
	)

	g := Build(tasks)

	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}

	// Every node must have a present adjacency entry, even with no deps.
	deps, ok := g.Adjacency["task-a"]
	if !ok {
		t.Fatal("task-a missing from adjacency")
	}
	if len(deps) != 0 {
		t.Errorf("task-a deps = %v, want empty", deps)
	}

	if !reflect.DeepEqual(g.Adjacency["task-c"], []string{"task-a", "task-b"}) {
		t.Errorf("task-c deps = %v", g.Adjacency["task-c"])
	}
	if !reflect.DeepEqual(g.ReverseAdjacency["task-a"], []string{"task-b", "task-c"}) {
		t.Errorf("task-a dependents = %v", g.ReverseAdjacency["task-a"])
	}
}

func TestBuildDropsDanglingDeps(t *testing.T) {
	tasks := mkTasks(
		[2]any{"task-a", []string{"task-closed", "task-unknown"}},
	)

	g := Build(tasks)

	if len(g.Adjacency["task-a"]) != 0 {
		t.Errorf("dangling deps should be dropped, got %v", g.Adjacency["task-a"])
	}

	layers, err := g.Layer()
	if err != nil {
		t.Fatalf("Layer() error = %v", err)
	}
	if len(layers) != 1 || len(layers[0]) != 1 {
		t.Errorf("expected single ready set with one task, got %v", layers)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	g := Build(nil)
	if g.Size() != 0 {
		t.Errorf("Size() = %d, want 0", g.Size())
	}

	layers, err := g.Layer()
	if err != nil {
		t.Fatalf("Layer() on empty graph error = %v", err)
	}
	if len(layers) != 0 {
		t.Errorf("expected no layers, got %v", layers)
	}
}

func TestLayer(t *testing.T) {
	tests := []struct {
		name  string
		tasks []task.Task
		want  []ReadySet
	}{
		{
			name: "no dependencies - single layer",
			tasks: mkTasks(
				[2]any{"task-b", nil},
				[2]any{"task-a", nil},
				[2]any{"task-c", nil},
			),
			want: []ReadySet{{"task-a", "task-b", "task-c"}},
		},
		{
			name: "linear chain",
			tasks: mkTasks(
				[2]any{"task-a", nil},
				[2]any{"task-b", []string{"task-a"}},
				[2]any{"task-c", []string{"task-b"}},
			),
			want: []ReadySet{{"task-a"}, {"task-b"}, {"task-c"}},
		},
		{
			name: "diamond",
			tasks: mkTasks(
				[2]any{"task-a", nil},
				[2]any{"task-b", []string{"task-a"}},
				[2]any{"task-c", []string{"task-a"}},
				[2]any{"task-d", []string{"task-b", "task-c"}},
			),
			want: []ReadySet{{"task-a"}, {"task-b", "task-c"}, {"task-d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.tasks)
			got, err := g.Layer()
			if err != nil {
				t.Fatalf("Layer() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Layer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayerPlacesTasksAfterDependencies(t *testing.T) {
	tasks := mkTasks(
		[2]any{"task-a", nil},
		[2]any{"task-b", []string{"task-a"}},
		[2]any{"task-c", []string{"task-a"}},
		[2]any{"task-d", []string{"task-b"}},
		[2]any{"task-e", []string{"task-c", "task-d"}},
	)
	g := Build(tasks)

	layers, err := g.Layer()
	if err != nil {
		t.Fatalf("Layer() error = %v", err)
	}

	layerOf := make(map[string]int)
	for i, layer := range layers {
		for _, id := range layer {
			layerOf[id] = i
		}
	}

	for _, tk := range tasks {
		for _, dep := range tk.DependsOn {
			if layerOf[tk.ID] <= layerOf[dep] {
				t.Errorf("%s (layer %d) not strictly after dependency %s (layer %d)",
					tk.ID, layerOf[tk.ID], dep, layerOf[dep])
			}
		}
	}
}

func TestLayerCycleDetection(t *testing.T) {
	tasks := mkTasks(
		[2]any{"task-a", []string{"task-b"}},
		[2]any{"task-b", []string{"task-a"}},
	)
	g := Build(tasks)

	_, err := g.Layer()
	if err == nil {
		t.Fatal("expected CycleError, got nil")
	}
	if !errors.Is(err, errors.ErrDependencyCycle) {
		t.Errorf("error does not match ErrDependencyCycle: %v", err)
	}

	var cycleErr *errors.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatal("expected a *errors.CycleError")
	}
	want := []string{"task-a", "task-b"}
	if !reflect.DeepEqual(cycleErr.TaskIDs, want) {
		t.Errorf("CycleError.TaskIDs = %v, want %v", cycleErr.TaskIDs, want)
	}
}

func TestLayerPartialCycleNamesStuckTasks(t *testing.T) {
	// task-a is schedulable; b and c form a cycle, d is stuck behind it.
	tasks := mkTasks(
		[2]any{"task-a", nil},
		[2]any{"task-b", []string{"task-c"}},
		[2]any{"task-c", []string{"task-b"}},
		[2]any{"task-d", []string{"task-b"}},
	)
	g := Build(tasks)

	_, err := g.Layer()
	var cycleErr *errors.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	want := []string{"task-b", "task-c", "task-d"}
	if !reflect.DeepEqual(cycleErr.TaskIDs, want) {
		t.Errorf("TaskIDs = %v, want %v", cycleErr.TaskIDs, want)
	}
}

func TestDependsOn(t *testing.T) {
	g := Build(mkTasks(
		[2]any{"task-a", nil},
		[2]any{"task-b", []string{"task-a"}},
		[2]any{"task-c", []string{"task-b"}},
		[2]any{"task-d", nil},
	))

	tests := []struct {
		a, b string
		want bool
	}{
		{"task-b", "task-a", true},
		{"task-c", "task-a", true}, // transitive
		{"task-a", "task-b", false},
		{"task-d", "task-a", false},
		{"task-a", "task-a", false},
	}

	for _, tt := range tests {
		if got := g.DependsOn(tt.a, tt.b); got != tt.want {
			t.Errorf("DependsOn(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	if !g.Related("task-a", "task-c") {
		t.Error("Related(task-a, task-c) = false, want true")
	}
	if g.Related("task-a", "task-d") {
		t.Error("Related(task-a, task-d) = true, want false")
	}
}

func TestCriticalChainLength(t *testing.T) {
	g := Build(mkTasks(
		[2]any{"task-a", nil},
		[2]any{"task-b", []string{"task-a"}},
		[2]any{"task-c", []string{"task-b"}},
		[2]any{"task-d", nil},
	))

	got, err := g.CriticalChainLength()
	if err != nil {
		t.Fatalf("CriticalChainLength() error = %v", err)
	}
	if got != 3 {
		t.Errorf("CriticalChainLength() = %d, want 3", got)
	}
}
