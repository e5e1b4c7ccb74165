// Package assemble turns planned selections into cut instructions and renders
// the final video through ffmpeg.
package assemble

import (
	"fmt"

	"stitch/internal/plan"
	"stitch/internal/services"
	"stitch/internal/takes"
)

// Segment is one cut of a source take, in output order.
type Segment struct {
	Ordinal      int
	LineNumber   int
	SourceID     string
	SourcePath   string
	StartSeconds float64
	EndSeconds   float64
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.EndSeconds - s.StartSeconds
}

// Timeline is the ordered list of segments to extract and join.
type Timeline struct {
	Segments []Segment
}

// Build converts selections into concrete cut ranges. Ratio trims are scaled
// by the take's probed duration, padding widens every cut, and the result is
// clamped to the take bounds so a ratio past the end never produces an
// impossible range.
func Build(selections []plan.Selection, registry map[string]*takes.Take, paddingSeconds float64) (Timeline, error) {
	var timeline Timeline
	for _, sel := range selections {
		take, ok := registry[sel.SourceID]
		if !ok || take == nil {
			return Timeline{}, services.Wrap(services.ErrNotFound, "assemble", "build timeline",
				fmt.Sprintf("take %s is not registered", sel.SourceID), nil)
		}
		duration := take.DurationSeconds
		if duration <= 0 {
			return Timeline{}, services.Wrap(services.ErrValidation, "assemble", "build timeline",
				fmt.Sprintf("take %s has no probed duration", sel.SourceID), nil)
		}

		var start, end float64
		switch sel.Trim.Kind {
		case plan.TrimSeconds:
			start, end = sel.Trim.Start, sel.Trim.End
		case plan.TrimRatio:
			start, end = sel.Trim.Start*duration, sel.Trim.End*duration
		default:
			start, end = 0, duration
		}

		start = clamp(start-paddingSeconds, 0, duration)
		end = clamp(end+paddingSeconds, 0, duration)
		if end <= start {
			return Timeline{}, services.Wrap(services.ErrValidation, "assemble", "build timeline",
				fmt.Sprintf("take %s trim collapses to an empty range", sel.SourceID), nil)
		}

		timeline.Segments = append(timeline.Segments, Segment{
			Ordinal:      len(timeline.Segments) + 1,
			LineNumber:   sel.LineNumber,
			SourceID:     sel.SourceID,
			SourcePath:   take.SourcePath,
			StartSeconds: start,
			EndSeconds:   end,
		})
	}
	return timeline, nil
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
