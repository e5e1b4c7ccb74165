// Package selector decides which candidate take answers each script line.
//
// The planner applies its confidence threshold on its own; selectors exist
// for the cases where that is not enough: a human reviewing candidates at a
// terminal, or a prior run's report being replayed to reproduce its choices.
package selector

import (
	"context"

	"stitch/internal/match"
	"stitch/internal/plan"
	"stitch/internal/script"
)

// DecisionKind classifies the outcome of one selection prompt.
type DecisionKind int

const (
	// DecisionSkip leaves the line to the planner's automatic choice.
	DecisionSkip DecisionKind = iota
	// DecisionPick overrides the line with a specific candidate.
	DecisionPick
	// DecisionQuit stops selecting; decisions made so far are kept.
	DecisionQuit
)

// Decision is a selector's verdict for one script line.
type Decision struct {
	Kind      DecisionKind
	Candidate match.Candidate
}

// Selector chooses a candidate take for a script line.
type Selector interface {
	Select(ctx context.Context, line script.Line, candidates []match.Candidate) (Decision, error)
}

// Run walks the script in order, collecting picks as planner overrides.
// A quit decision stops early and preserves everything chosen so far, as
// does a selector error.
func Run(ctx context.Context, sel Selector, lines []script.Line, candidatesByLine map[int][]match.Candidate) (map[int]plan.Selection, error) {
	overrides := make(map[int]plan.Selection)
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return overrides, err
		}

		decision, err := sel.Select(ctx, line, candidatesByLine[line.Number])
		if err != nil {
			return overrides, err
		}
		switch decision.Kind {
		case DecisionPick:
			overrides[line.Number] = plan.Selection{
				LineNumber: line.Number,
				SourceID:   decision.Candidate.SourceID,
				LineText:   line.Text,
				Score:      decision.Candidate.Score,
				Matched:    decision.Candidate.MatchedSpan,
				Manual:     true,
			}
		case DecisionQuit:
			return overrides, nil
		}
	}
	return overrides, nil
}
