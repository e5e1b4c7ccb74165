// Package plan turns per-line match candidates and human overrides into the
// ordered, deduplicated take sequence the assembler consumes.
package plan

import (
	"log/slog"
	"sort"

	"stitch/internal/logging"
	"stitch/internal/match"
	"stitch/internal/script"
)

// TrimKind tags how a selection's trim range is expressed.
type TrimKind int

const (
	// TrimNone means the segment window comes from phrase location.
	TrimNone TrimKind = iota
	// TrimRatio expresses the window as fractions of the take duration.
	TrimRatio
	// TrimSeconds expresses the window as absolute seconds into the take.
	TrimSeconds
)

// Trim is an optional explicit segment window attached to a selection.
type Trim struct {
	Kind  TrimKind
	Start float64
	End   float64
}

// Disjoint reports whether two trims are provably non-overlapping. Trims of
// different kinds (or absent trims) cannot be proven disjoint and are
// treated as overlapping for deduplication.
func (t Trim) Disjoint(other Trim) bool {
	if t.Kind == TrimNone || other.Kind == TrimNone || t.Kind != other.Kind {
		return false
	}
	return t.End <= other.Start || other.End <= t.Start
}

// Selection is the chosen take for a script line. At most one live selection
// exists per line; re-planning overwrites automatic selections but never
// manual ones.
type Selection struct {
	LineNumber int
	SourceID   string
	LineText   string
	Score      float64
	Matched    string
	Trim       Trim
	// Manual marks a human override, which takes precedence over any
	// candidate regardless of score.
	Manual bool
}

// Planner builds selection plans from candidates and overrides.
type Planner struct {
	// MinConfidence is the score the top candidate must reach for a line
	// to be auto-selected.
	MinConfidence float64
	Logger        *slog.Logger
}

// Plan chooses one selection per script line in script order: the override
// when present, else the top-ranked candidate meeting MinConfidence. Lines
// with no qualifying take are returned as gaps and logged; they are simply
// absent from the final video.
func (p *Planner) Plan(lines []script.Line, candidatesByLine map[int][]match.Candidate, overrides map[int]Selection) (selections []Selection, gaps []script.Line) {
	log := logging.NewComponentLogger(p.Logger, "plan")

	for _, line := range lines {
		if override, ok := overrides[line.Number]; ok {
			override.LineNumber = line.Number
			override.LineText = line.Text
			override.Manual = true
			selections = append(selections, override)
			continue
		}

		candidates := candidatesByLine[line.Number]
		if len(candidates) == 0 || candidates[0].Score < p.MinConfidence {
			gaps = append(gaps, line)
			log.Warn("no take for line",
				logging.Args(logging.Int("line", line.Number), logging.String("text", line.Text))...)
			continue
		}

		top := candidates[0]
		selections = append(selections, Selection{
			LineNumber: line.Number,
			SourceID:   top.SourceID,
			LineText:   line.Text,
			Score:      top.Score,
			Matched:    top.MatchedSpan,
		})
	}

	sort.SliceStable(selections, func(i, j int) bool {
		return selections[i].LineNumber < selections[j].LineNumber
	})
	return selections, gaps
}

// Deduplicate collapses the plan to one entry per source take, keeping the
// earliest line that selected it. Two selections of the same take both
// survive only when their explicit trims are provably disjoint, in which
// case the take legitimately supplies two different segments.
func Deduplicate(selections []Selection) []Selection {
	kept := make([]Selection, 0, len(selections))
	bySource := make(map[string][]int)

	for _, sel := range selections {
		indexes := bySource[sel.SourceID]
		conflict := false
		for _, idx := range indexes {
			if !kept[idx].Trim.Disjoint(sel.Trim) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		bySource[sel.SourceID] = append(indexes, len(kept))
		kept = append(kept, sel)
	}
	return kept
}
