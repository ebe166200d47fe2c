package validator

import (
	"github.com/shopspring/decimal"

	"iaros/kitlogistics/internal/optimizer"
)

// ValidationReport is C7's output: every repair applied plus the
// severity-separated findings that drove it (spec.md §4.7). Warnings
// are logged and the repaired decision is submitted anyway; any Error
// aborts the round.
type ValidationReport struct {
	Errors            []string
	Warnings          []string
	RepairedDecisions optimizer.Decision

	// IncorrectLoadPenalty tallies costmodel.IncorrectLoadPenalty() once
	// per dropped load reference (unknown flight id, already-departed
	// flight, unknown aircraft type) — spec.md §4.2's flat charge for a
	// bad reference in the submitted decision.
	IncorrectLoadPenalty decimal.Decimal
}

// OK reports whether the round may proceed with RepairedDecisions.
func (r ValidationReport) OK() bool {
	return len(r.Errors) == 0
}
