// Package conflict detects resource conflicts between tasks scheduled to run
// in parallel, and splits a candidate batch into conflict-free groups.
//
// Two tasks conflict when their descriptions reference an overlapping
// concrete resource identifier, in practice a shared path-like token. The
// detection is deliberately conservative: a false positive merely splits
// tasks that would not actually collide, while a false negative would let
// real collisions run concurrently.
package conflict

import (
	"regexp"
	"sort"
	"strings"

	"github.com/planora/planora/internal/task"
)

// pathTokenRe matches path-like tokens in free text: at least one separator
// between word characters, with an optional extension. Matches things like
// internal/graph/graph.go, src/app.ts, docs/adr/0001.md.
var pathTokenRe = regexp.MustCompile(`[A-Za-z0-9_.-]+(?:/[A-Za-z0-9_.-]+)+`)

// fileTokenRe matches bare filenames with a recognizable extension, e.g.
// schema.sql or Makefile-style dotted names mentioned without a directory.
var fileTokenRe = regexp.MustCompile(`\b[A-Za-z0-9_-]+\.[A-Za-z]{1,10}\b`)

// Detector finds resource conflicts within a set of tasks.
type Detector struct {
	// ignoreTokens suppresses noisy pseudo-paths that appear in prose
	// (URLs schemes, version strings and the like are already excluded by
	// the token patterns).
	ignoreTokens map[string]bool
}

// Option configures a Detector.
type Option func(*Detector)

// WithIgnoredTokens adds resource tokens that never count as conflicts.
func WithIgnoredTokens(tokens ...string) Option {
	return func(d *Detector) {
		for _, tok := range tokens {
			d.ignoreTokens[strings.ToLower(tok)] = true
		}
	}
}

// NewDetector creates a conflict detector.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		ignoreTokens: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resources extracts the normalized path-like resource tokens referenced by
// a task's description. The result is sorted and deduplicated.
func (d *Detector) Resources(t task.Task) []string {
	seen := make(map[string]bool)

	for _, match := range pathTokenRe.FindAllString(t.Description, -1) {
		tok := normalizeToken(match)
		if tok != "" && !d.ignoreTokens[tok] {
			seen[tok] = true
		}
	}
	for _, match := range fileTokenRe.FindAllString(t.Description, -1) {
		tok := normalizeToken(match)
		if tok != "" && !d.ignoreTokens[tok] {
			seen[tok] = true
		}
	}

	if len(seen) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// versionTokenRe matches version-ish tokens (v1.2, 2.0) that read as
// prose, not resources.
var versionTokenRe = regexp.MustCompile(`^v?\d+(\.\d+)*$`)

// normalizeToken lowercases a token and strips trailing punctuation picked
// up from surrounding prose.
func normalizeToken(tok string) string {
	tok = strings.ToLower(strings.Trim(tok, ".,;:!?)('\"`"))
	if versionTokenRe.MatchString(tok) {
		return ""
	}
	return tok
}

// Conflict records a detected resource overlap between two tasks.
type Conflict struct {
	// TaskA and TaskB are the conflicting task ids, with TaskA < TaskB.
	TaskA string `json:"task_a"`
	TaskB string `json:"task_b"`

	// Resources are the shared resource tokens, sorted.
	Resources []string `json:"resources"`
}

// Detect builds the conflict relation among the given tasks. The result is
// sorted by (TaskA, TaskB) for determinism.
func (d *Detector) Detect(tasks []task.Task) []Conflict {
	resources := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		resources[t.ID] = d.Resources(t)
	}

	var conflicts []Conflict
	for i := 0; i < len(tasks); i++ {
		for j := i + 1; j < len(tasks); j++ {
			shared := intersect(resources[tasks[i].ID], resources[tasks[j].ID])
			if len(shared) == 0 {
				continue
			}
			a, b := tasks[i].ID, tasks[j].ID
			if a > b {
				a, b = b, a
			}
			conflicts = append(conflicts, Conflict{TaskA: a, TaskB: b, Resources: shared})
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].TaskA != conflicts[j].TaskA {
			return conflicts[i].TaskA < conflicts[j].TaskA
		}
		return conflicts[i].TaskB < conflicts[j].TaskB
	})
	return conflicts
}

// intersect returns the sorted intersection of two sorted string slices.
func intersect(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Split partitions a candidate parallel batch into groups such that no two
// tasks sharing a conflict edge land in the same group.
//
// The partition is a greedy graph coloring: tasks are visited in stable id
// order and placed into the first existing group containing no conflicting
// member, or a new group. Not guaranteed minimal, but guaranteed safe and
// deterministic. A batch with no detected conflicts comes back as a single
// group.
func (d *Detector) Split(tasks []task.Task) [][]string {
	if len(tasks) == 0 {
		return nil
	}

	ordered := make([]task.Task, len(tasks))
	copy(ordered, tasks)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	conflicts := d.Detect(ordered)
	conflictsWith := make(map[string]map[string]bool)
	for _, c := range conflicts {
		if conflictsWith[c.TaskA] == nil {
			conflictsWith[c.TaskA] = make(map[string]bool)
		}
		if conflictsWith[c.TaskB] == nil {
			conflictsWith[c.TaskB] = make(map[string]bool)
		}
		conflictsWith[c.TaskA][c.TaskB] = true
		conflictsWith[c.TaskB][c.TaskA] = true
	}

	var groups [][]string
	for _, t := range ordered {
		placed := false
		for gi, group := range groups {
			clash := false
			for _, member := range group {
				if conflictsWith[t.ID][member] {
					clash = true
					break
				}
			}
			if !clash {
				groups[gi] = append(groups[gi], t.ID)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []string{t.ID})
		}
	}

	return groups
}
