package selector

import (
	"context"

	"stitch/internal/match"
	"stitch/internal/script"
)

// Auto picks the top-ranked candidate whenever it clears the confidence
// threshold and skips otherwise, mirroring the planner's automatic rule for
// callers that want selection decisions without a planner pass.
type Auto struct {
	MinConfidence float64
}

// Select picks candidates[0] when it meets the threshold.
func (a Auto) Select(ctx context.Context, line script.Line, candidates []match.Candidate) (Decision, error) {
	if len(candidates) == 0 || candidates[0].Score < a.MinConfidence {
		return Decision{Kind: DecisionSkip}, nil
	}
	return Decision{Kind: DecisionPick, Candidate: candidates[0]}, nil
}
