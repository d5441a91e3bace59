// Package tracker pulls task snapshots from external issue trackers.
//
// Two sources are supported: a local task file (JSON or YAML) and GitHub
// issues via the gh CLI. Both produce the same raw record shape; all
// cleanup beyond field mapping is left to normalization so that every
// source benefits from the same malformed-record handling.
package tracker

import (
	"context"

	"github.com/planora/planora/internal/task"
)

// Source is a read-only provider of task snapshots.
type Source interface {
	// Name identifies the source in logs and error messages.
	Name() string

	// Fetch returns the current snapshot of raw task records.
	Fetch(ctx context.Context) ([]task.RawRecord, error)
}
