// Package task defines the immutable task snapshot records consumed by the
// planner, along with normalization of raw records pulled from an external
// issue tracker.
//
// A Task is a read-only snapshot: the planner never mutates a record after
// ingestion, and every planning call is handed a fresh snapshot by the
// tracker collaborator.
package task

import (
	"sort"
	"strings"
)

// Status represents the lifecycle state of a task in the external tracker.
type Status string

const (
	// StatusOpen indicates the task still needs to be executed.
	StatusOpen Status = "open"

	// StatusClosed indicates the task is done (or abandoned) and no longer
	// gates execution of its dependents.
	StatusClosed Status = "closed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if this is a recognized status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosed:
		return true
	default:
		return false
	}
}

// Task represents a single unit of work pulled from the issue tracker.
//
// Tasks form a directed acyclic graph via DependsOn that determines
// execution order. Tasks with no dependencies can run immediately.
type Task struct {
	// ID uniquely identifies this task within the snapshot.
	ID string `json:"id" yaml:"id"`

	// Title is a short, human-readable name for the task.
	Title string `json:"title" yaml:"title"`

	// Status is the tracker lifecycle state. Closed tasks are excluded from
	// planning during normalization.
	Status Status `json:"status" yaml:"status"`

	// Type is a free-form classification supplied by the tracker
	// (e.g. "feature", "bug", "chore").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Priority determines urgency. Lower values indicate higher urgency;
	// 0 is critical. Records missing the field default to LowestPriority.
	Priority int `json:"priority" yaml:"priority"`

	// Description contains the free-text body of the task. It may mention
	// concrete resource identifiers (file paths) used for conflict detection.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// DependsOn lists task IDs that must complete before this task can start.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// LowestPriority is the neutral default for records that omit the priority
// field: treated as the least urgent class.
const LowestPriority = 1 << 20

// HasDependencies returns true if this task depends on other tasks.
func (t *Task) HasDependencies() bool {
	return len(t.DependsOn) > 0
}

// IsOpen returns true if the task still needs to be executed.
func (t *Task) IsOpen() bool {
	return t.Status != StatusClosed
}

// Warning describes a task record that was skipped or adjusted during
// normalization. Warnings are collected and returned alongside the plan
// rather than aborting the run: one bad record from the upstream tracker
// must not block all other tasks.
type Warning struct {
	// TaskID identifies the offending record when it has an id; empty for
	// records rejected for missing one.
	TaskID string `json:"task_id,omitempty"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`
}

// RawRecord is a task record as received from the tracker, before defaults
// are applied. Pointer fields distinguish "absent" from zero values.
type RawRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Status      string   `json:"status" yaml:"status"`
	Type        string   `json:"type" yaml:"type"`
	Priority    *int     `json:"priority" yaml:"priority"`
	Description string   `json:"description" yaml:"description"`
	DependsOn   []string `json:"depends_on" yaml:"depends_on"`
}

// Normalize converts raw tracker records into planner-ready Task snapshots.
//
// It applies neutral defaults for missing optional fields (empty description,
// lowest-urgency priority), rejects records without an id (collected as
// warnings, never a crash), drops closed tasks, and flags duplicate ids and
// self-dependencies. The relative order of surviving records is preserved so
// downstream tie-breaks stay deterministic.
func Normalize(records []RawRecord) ([]Task, []Warning) {
	tasks := make([]Task, 0, len(records))
	var warnings []Warning
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			warnings = append(warnings, Warning{
				Message: "skipped record with missing id",
			})
			continue
		}
		if seen[id] {
			warnings = append(warnings, Warning{
				TaskID:  id,
				Message: "skipped duplicate task id",
			})
			continue
		}
		seen[id] = true

		status := Status(strings.ToLower(strings.TrimSpace(rec.Status)))
		if status == "" {
			status = StatusOpen
		}
		if !status.IsValid() {
			warnings = append(warnings, Warning{
				TaskID:  id,
				Message: "unrecognized status " + rec.Status + ", treated as open",
			})
			status = StatusOpen
		}
		if status == StatusClosed {
			continue
		}

		priority := LowestPriority
		if rec.Priority != nil {
			priority = *rec.Priority
		}

		deps := make([]string, 0, len(rec.DependsOn))
		for _, dep := range rec.DependsOn {
			dep = strings.TrimSpace(dep)
			if dep == "" {
				continue
			}
			if dep == id {
				warnings = append(warnings, Warning{
					TaskID:  id,
					Message: "dropped self-dependency",
				})
				continue
			}
			deps = append(deps, dep)
		}

		tasks = append(tasks, Task{
			ID:          id,
			Title:       strings.TrimSpace(rec.Title),
			Status:      status,
			Type:        rec.Type,
			Priority:    priority,
			Description: rec.Description,
			DependsOn:   deps,
		})
	}

	return tasks, warnings
}

// Index builds a lookup map from task id to task. The returned map shares
// no memory with the input slice beyond the tasks themselves.
func Index(tasks []Task) map[string]Task {
	index := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		index[t.ID] = t
	}
	return index
}

// IDs returns the sorted ids of the given tasks.
func IDs(tasks []Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}
