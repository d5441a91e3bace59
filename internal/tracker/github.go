package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/task"
)

// CommandExecutor is a function type that executes a command and returns its
// combined output. This allows for dependency injection in tests.
type CommandExecutor func(ctx context.Context, name string, args ...string) ([]byte, error)

// defaultExecutor runs commands using os/exec.
var defaultExecutor CommandExecutor = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// labelJSON is used to unmarshal the nested label objects from gh CLI JSON output.
type labelJSON struct {
	Name string `json:"name"`
}

// ghIssue is the raw JSON structure returned by gh issue list --json.
type ghIssue struct {
	Number int         `json:"number"`
	Title  string      `json:"title"`
	Body   string      `json:"body"`
	State  string      `json:"state"`
	Labels []labelJSON `json:"labels"`
}

var (
	// dependenciesSectionRe matches the "## Dependencies" section of an
	// issue body, up to the next heading or horizontal rule.
	dependenciesSectionRe = regexp.MustCompile(`(?sm)^##\s*Dependencies\s*$(.*?)(?:^##|^---|\z)`)

	// issueRefRe matches #N issue references.
	issueRefRe = regexp.MustCompile(`#(\d+)`)

	// priorityLabelRe matches priority labels like "priority:2", "p1", "P0".
	priorityLabelRe = regexp.MustCompile(`(?i)^p(?:riority[:\s-]*)?(\d+)$`)
)

// GitHubSource pulls open issues from a GitHub repository using the gh CLI.
//
// Issue bodies may carry a "## Dependencies" section listing #N references
// to other issues in the same repository; those become dependency edges.
type GitHubSource struct {
	owner    string
	repo     string
	label    string
	limit    int
	executor CommandExecutor
	logger   *logging.Logger
}

// GitHubOption configures a GitHubSource.
type GitHubOption func(*GitHubSource)

// WithLabel restricts the fetch to issues carrying the given label.
func WithLabel(label string) GitHubOption {
	return func(s *GitHubSource) {
		s.label = label
	}
}

// WithLimit caps the number of issues fetched.
func WithLimit(limit int) GitHubOption {
	return func(s *GitHubSource) {
		s.limit = limit
	}
}

// WithExecutor replaces the command executor. Tests use this to avoid
// shelling out to gh.
func WithExecutor(exec CommandExecutor) GitHubOption {
	return func(s *GitHubSource) {
		s.executor = exec
	}
}

// NewGitHubSource creates a source for the given owner/repo.
func NewGitHubSource(owner, repo string, logger *logging.Logger, opts ...GitHubOption) *GitHubSource {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	s := &GitHubSource{
		owner:    owner,
		repo:     repo,
		limit:    500,
		executor: defaultExecutor,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *GitHubSource) Name() string {
	return "github"
}

// Fetch implements Source.
func (s *GitHubSource) Fetch(ctx context.Context) ([]task.RawRecord, error) {
	if s.owner == "" || s.repo == "" {
		return nil, errors.NewTrackerError(
			"github source requires owner and repo", errors.ErrNoTaskSource,
		).WithSource(s.Name())
	}

	args := []string{
		"issue", "list",
		"--repo", s.owner + "/" + s.repo,
		"--state", "open",
		"--json", "number,title,body,state,labels",
		"--limit", strconv.Itoa(s.limit),
	}
	if s.label != "" {
		args = append(args, "--label", s.label)
	}

	output, err := s.executor(ctx, "gh", args...)
	if err != nil {
		return nil, s.classifyError(err, output)
	}

	var issues []ghIssue
	if err := json.Unmarshal(output, &issues); err != nil {
		return nil, errors.NewTrackerError("parsing gh output", err).WithSource(s.Name())
	}

	records := make([]task.RawRecord, 0, len(issues))
	for _, issue := range issues {
		records = append(records, recordFromIssue(issue))
	}

	s.logger.WithSource(s.Name()).Debug("fetched issues",
		"repo", s.owner+"/"+s.repo, "count", len(records))
	return records, nil
}

// recordFromIssue maps one gh issue onto a raw task record.
func recordFromIssue(issue ghIssue) task.RawRecord {
	rec := task.RawRecord{
		ID:          issueID(issue.Number),
		Title:       issue.Title,
		Status:      statusFromState(issue.State),
		Description: issue.Body,
		DependsOn:   parseDependencies(issue.Body),
	}

	for _, label := range issue.Labels {
		if p, ok := parsePriorityLabel(label.Name); ok {
			rec.Priority = &p
			continue
		}
		if t, ok := strings.CutPrefix(label.Name, "type:"); ok && rec.Type == "" {
			rec.Type = strings.TrimSpace(t)
		}
	}

	return rec
}

// issueID renders an issue number as a task id.
func issueID(number int) string {
	return "issue-" + strconv.Itoa(number)
}

// statusFromState maps gh issue states onto tracker statuses.
func statusFromState(state string) string {
	if strings.EqualFold(state, "closed") {
		return "closed"
	}
	return "open"
}

// parseDependencies extracts issue references from the "## Dependencies"
// section of an issue body. References outside that section are ignored:
// bodies routinely mention unrelated issues.
func parseDependencies(body string) []string {
	matches := dependenciesSectionRe.FindStringSubmatch(body)
	if len(matches) < 2 {
		return nil
	}

	var deps []string
	seen := make(map[string]bool)
	for _, ref := range issueRefRe.FindAllStringSubmatch(matches[1], -1) {
		num, err := strconv.Atoi(ref[1])
		if err != nil {
			continue
		}
		id := issueID(num)
		if !seen[id] {
			deps = append(deps, id)
			seen[id] = true
		}
	}
	return deps
}

// parsePriorityLabel extracts a priority class from labels like
// "priority:2" or "p0".
func parsePriorityLabel(label string) (int, bool) {
	matches := priorityLabelRe.FindStringSubmatch(strings.TrimSpace(label))
	if len(matches) < 2 {
		return 0, false
	}
	p, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return p, true
}

// classifyError turns gh failures into tracker errors with actionable
// messages.
func (s *GitHubSource) classifyError(err error, output []byte) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.NewTrackerError(
			"gh CLI is not installed or not in PATH", errors.ErrTrackerUnavailable,
		).WithSource(s.Name())
	}

	outStr := strings.ToLower(string(output))
	switch {
	case strings.Contains(outStr, "not logged in"),
		strings.Contains(outStr, "authentication required"),
		strings.Contains(outStr, "gh auth login"):
		return errors.NewTrackerError(
			"gh CLI requires authentication (run 'gh auth login')", errors.ErrTrackerUnavailable,
		).WithSource(s.Name())
	case strings.Contains(outStr, "could not resolve to a repository"):
		return errors.NewTrackerError(
			fmt.Sprintf("repository %s/%s not found or not accessible", s.owner, s.repo), err,
		).WithSource(s.Name())
	}

	return errors.NewTrackerError(
		fmt.Sprintf("gh command failed: %s", strings.TrimSpace(string(output))), err,
	).WithSource(s.Name())
}
