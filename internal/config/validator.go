package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/planora/planora/internal/strategy"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "planner.strategy")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidOutputFormats returns the list of valid plan output formats
func ValidOutputFormats() []string {
	return []string{"text", "json"}
}

// ValidSources returns the list of valid tracker sources
func ValidSources() []string {
	return []string{"file", "github"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePlanner()...)
	errors = append(errors, c.validateTracker()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateWatch()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validatePlanner() []ValidationError {
	var errors []ValidationError

	if !strategy.Name(c.Planner.Strategy).IsValid() {
		names := make([]string, 0, len(strategy.All()))
		for _, n := range strategy.All() {
			names = append(names, string(n))
		}
		errors = append(errors, ValidationError{
			Field:   "planner.strategy",
			Value:   c.Planner.Strategy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(names, ", ")),
		})
	}

	return errors
}

func (c *Config) validateTracker() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidSources(), c.Tracker.Source) {
		errors = append(errors, ValidationError{
			Field:   "tracker.source",
			Value:   c.Tracker.Source,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidSources(), ", ")),
		})
	}
	if c.Tracker.Source == "file" && c.Tracker.File == "" {
		errors = append(errors, ValidationError{
			Field:   "tracker.file",
			Value:   c.Tracker.File,
			Message: "file source requires a task file path",
		})
	}
	if c.Tracker.Source == "github" {
		if c.Tracker.GitHub.Owner == "" || c.Tracker.GitHub.Repo == "" {
			errors = append(errors, ValidationError{
				Field:   "tracker.github",
				Value:   c.Tracker.GitHub.Owner + "/" + c.Tracker.GitHub.Repo,
				Message: "github source requires owner and repo",
			})
		}
	}
	if c.Tracker.GitHub.Limit < 0 {
		errors = append(errors, ValidationError{
			Field:   "tracker.github.limit",
			Value:   c.Tracker.GitHub.Limit,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidOutputFormats(), c.Output.Format) {
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidOutputFormats(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	if c.Watch.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
