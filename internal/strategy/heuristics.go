package strategy

import (
	"strings"

	"github.com/planora/planora/internal/task"
)

// Scorer assigns a foundational-work score to a task. Higher scores indicate
// work that many subsequent tasks implicitly benefit from (schema changes,
// infrastructure, project setup). Scorers must be deterministic: identical
// input tasks always produce identical scores.
//
// The heuristic is keyword-based and approximate; it is pluggable so that
// alternate vocabularies can be substituted without touching the sorter.
type Scorer func(t task.Task) int

// foundationalKeywords is the default English vocabulary. Title matches
// weigh more than description matches since titles are terser and less
// likely to mention the keyword incidentally.
var foundationalKeywords = []string{
	"schema",
	"migration",
	"database",
	"infrastructure",
	"scaffold",
	"setup",
	"set up",
	"bootstrap",
	"foundation",
	"config",
	"skeleton",
	"initialize",
	"initial ",
}

// foundationalTypes are task type classifications that imply groundwork.
var foundationalTypes = map[string]bool{
	"infra":          true,
	"infrastructure": true,
	"setup":          true,
	"chore":          true,
}

// DefaultScorer is the standard foundational-work heuristic: keyword hits in
// the title score 2 each, hits in the description score 1 each, and a
// foundational task type adds 2.
func DefaultScorer(t task.Task) int {
	title := strings.ToLower(t.Title)
	desc := strings.ToLower(t.Description)

	score := 0
	for _, kw := range foundationalKeywords {
		if strings.Contains(title, kw) {
			score += 2
		}
		if strings.Contains(desc, kw) {
			score++
		}
	}
	if foundationalTypes[strings.ToLower(t.Type)] {
		score += 2
	}
	return score
}

// IsFoundational reports whether the default heuristic considers the task
// foundational at all.
func IsFoundational(t task.Task) bool {
	return DefaultScorer(t) > 0
}
