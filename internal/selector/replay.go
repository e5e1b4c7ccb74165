package selector

import (
	"context"

	"stitch/internal/match"
	"stitch/internal/plan"
	"stitch/internal/report"
	"stitch/internal/script"
)

// Replay reproduces the choices recorded in a prior matching report. Lines
// the report has no selection for are skipped so the planner falls back to
// its automatic choice.
type Replay struct {
	byLine map[int]plan.Selection
}

// NewReplay builds a replay selector from a parsed report.
func NewReplay(doc report.Document) *Replay {
	byLine := make(map[int]plan.Selection, len(doc.Selections))
	for _, sel := range doc.Selections {
		byLine[sel.LineNumber] = sel
	}
	return &Replay{byLine: byLine}
}

// Select answers with the report's recorded take for the line, if any.
func (r *Replay) Select(ctx context.Context, line script.Line, candidates []match.Candidate) (Decision, error) {
	recorded, ok := r.byLine[line.Number]
	if !ok {
		return Decision{Kind: DecisionSkip}, nil
	}
	return Decision{
		Kind: DecisionPick,
		Candidate: match.Candidate{
			LineNumber:  line.Number,
			SourceID:    recorded.SourceID,
			Score:       recorded.Score,
			MatchedSpan: recorded.Matched,
		},
	}, nil
}
