// Package errors provides centralized error definitions and error handling
// utilities for the Planora codebase. It defines domain-specific errors,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - ConfigurationError: invalid caller-supplied configuration (bad strategy name, bad output format)
//   - CycleError: the dependency graph contains an unresolvable cycle
//   - PlannerError: errors raised while assembling an execution plan
//   - TrackerError: errors from the issue-tracker collaborators
//
// # Usage
//
// Creating errors:
//
//	// Configuration error for an unknown strategy
//	err := errors.NewConfigurationError("strategy", name, errors.ErrUnknownStrategy)
//
//	// Cycle error naming the unresolved tasks
//	err := errors.NewCycleError([]string{"task-a", "task-b"})
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrDependencyCycle) { ... }
//
//	// Check for error types
//	var cycleErr *errors.CycleError
//	if errors.As(err, &cycleErr) {
//		fmt.Println(cycleErr.TaskIDs)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning Severity = iota
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Configuration-related sentinel errors
var (
	// ErrUnknownStrategy indicates the caller requested a strategy name that
	// is not part of the closed strategy set.
	ErrUnknownStrategy = New("unknown ordering strategy")
	// ErrUnknownOutputFormat indicates an unsupported output format.
	ErrUnknownOutputFormat = New("unknown output format")
	// ErrNoTaskSource indicates no task source was configured.
	ErrNoTaskSource = New("no task source configured")
)

// Planning-related sentinel errors
var (
	// ErrDependencyCycle indicates a circular dependency among tasks.
	ErrDependencyCycle = New("dependency cycle detected")
	// ErrNoTasks indicates that no valid tasks remained after filtering.
	ErrNoTasks = New("no schedulable tasks")
	// ErrMissingTaskID indicates a task record without an identity field.
	ErrMissingTaskID = New("task record has no id")
)

// Tracker-related sentinel errors
var (
	// ErrTrackerUnavailable indicates the external tracker could not be reached.
	ErrTrackerUnavailable = New("issue tracker unavailable")
	// ErrTaskFileNotFound indicates the task snapshot file does not exist.
	ErrTaskFileNotFound = New("task file not found")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ConfigurationError represents invalid caller-supplied configuration.
// It is always detected before any graph work begins and is never retryable.
//
// Example:
//
//	err := errors.NewConfigurationError("strategy", "speed_first", errors.ErrUnknownStrategy)
//	fmt.Println(err) // `configuration error [strategy="speed_first"]: unknown ordering strategy`
type ConfigurationError struct {
	baseError
	Field string
	Value string
}

// NewConfigurationError creates a new ConfigurationError for the given field
// and offending value.
func NewConfigurationError(field, value string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			message:    "configuration error",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Field: field,
		Value: value,
	}
}

// Error returns the formatted error message.
func (e *ConfigurationError) Error() string {
	prefix := "configuration error"
	if e.Field != "" {
		prefix = fmt.Sprintf("configuration error [%s=%q]", e.Field, e.Value)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *ConfigurationError) Is(target error) bool {
	if _, ok := target.(*ConfigurationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// CycleError indicates that the dependency graph contains an unresolvable
// cycle. It names the task ids left unscheduled so the caller (or a human)
// can break the cycle upstream. The planner never truncates or guesses an
// order when a cycle is present.
type CycleError struct {
	baseError
	// TaskIDs are the ids of the tasks involved in (or blocked behind) the
	// cycle, sorted for determinism.
	TaskIDs []string
}

// NewCycleError creates a CycleError naming the unresolved task ids.
func NewCycleError(taskIDs []string) *CycleError {
	return &CycleError{
		baseError: baseError{
			message:    "dependency cycle",
			cause:      ErrDependencyCycle,
			severity:   SeverityCritical,
			userFacing: true,
		},
		TaskIDs: taskIDs,
	}
}

// Error returns the formatted error message.
func (e *CycleError) Error() string {
	if len(e.TaskIDs) == 0 {
		return "dependency cycle detected"
	}
	return fmt.Sprintf("dependency cycle detected among tasks: %s", strings.Join(e.TaskIDs, ", "))
}

// Is checks if this error matches the target.
func (e *CycleError) Is(target error) bool {
	if _, ok := target.(*CycleError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PlannerError represents a failure while assembling an execution plan.
//
// Example:
//
//	err := errors.NewPlannerError("empty plan", errors.ErrNoTasks).WithStrategy("topological")
type PlannerError struct {
	baseError
	Strategy string
}

// NewPlannerError creates a new PlannerError.
func NewPlannerError(message string, cause error) *PlannerError {
	return &PlannerError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithStrategy adds the active strategy name to the error context.
func (e *PlannerError) WithStrategy(name string) *PlannerError {
	e.Strategy = name
	return e
}

// Error returns the formatted error message.
func (e *PlannerError) Error() string {
	prefix := "planner error"
	if e.Strategy != "" {
		prefix = fmt.Sprintf("planner error [strategy=%s]", e.Strategy)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *PlannerError) Is(target error) bool {
	if _, ok := target.(*PlannerError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TrackerError represents errors from the issue-tracker collaborators.
type TrackerError struct {
	baseError
	Source string
}

// NewTrackerError creates a new TrackerError.
func NewTrackerError(message string, cause error) *TrackerError {
	return &TrackerError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithSource adds the tracker source name to the error context.
func (e *TrackerError) WithSource(source string) *TrackerError {
	e.Source = source
	return e
}

// Error returns the formatted error message.
func (e *TrackerError) Error() string {
	prefix := "tracker error"
	if e.Source != "" {
		prefix = fmt.Sprintf("tracker error [source=%s]", e.Source)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *TrackerError) Is(target error) bool {
	if _, ok := target.(*TrackerError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// classifier is implemented by errors that carry severity and audience hints.
type classifier interface {
	Severity() Severity
	IsUserFacing() bool
}

// IsUserFacing returns true if the error message is safe to display to end
// users. Unknown error types are treated as internal.
func IsUserFacing(err error) bool {
	var c classifier
	if As(err, &c) {
		return c.IsUserFacing()
	}
	return false
}

// SeverityOf returns the severity of the error, defaulting to SeverityError
// for plain errors.
func SeverityOf(err error) Severity {
	var c classifier
	if As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}

// IsConfiguration returns true if the error is a configuration error that
// the caller can fix by changing its input, as opposed to a planning failure.
func IsConfiguration(err error) bool {
	var confErr *ConfigurationError
	return As(err, &confErr)
}

// IsCycle returns true if the error indicates an unresolvable dependency cycle.
func IsCycle(err error) bool {
	return Is(err, ErrDependencyCycle)
}
