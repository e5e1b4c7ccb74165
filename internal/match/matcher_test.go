package match_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"stitch/internal/match"
	"stitch/internal/script"
	"stitch/internal/textutil"
	"stitch/internal/transcript"
)

func takes(pairs ...string) []transcript.Transcript {
	out := make([]transcript.Transcript, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, transcript.Transcript{SourceID: pairs[i], Text: pairs[i+1]})
	}
	return out
}

func TestExactContainmentScoresOne(t *testing.T) {
	line := script.Line{Number: 1, Text: "Hello, world!"}
	transcripts := takes("a.mp4", "uh hello world how are you")

	candidates := match.FindCandidates(line, transcripts, 0.3)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].Score != 1.0 {
		t.Errorf("score = %v, want 1.0 despite surrounding noise", candidates[0].Score)
	}
	if candidates[0].SourceID != "a.mp4" {
		t.Errorf("source = %q", candidates[0].SourceID)
	}
}

func TestCandidatesRankedDescendingStable(t *testing.T) {
	line := script.Line{Number: 2, Text: "take the dog out for a walk"}
	transcripts := takes(
		"weak.mp4", "something entirely unrelated happened here today",
		"exact.mp4", "ok so take the dog out for a walk right now",
		"partial.mp4", "you should take the dog out tomorrow maybe",
	)

	candidates := match.FindCandidates(line, transcripts, 0.0)
	if len(candidates) < 2 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	if candidates[0].SourceID != "exact.mp4" || candidates[0].Score != 1.0 {
		t.Errorf("top candidate = %+v, want exact.mp4 at 1.0", candidates[0])
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Errorf("candidates not descending at %d: %+v", i, candidates)
		}
	}
}

func TestTieBreakKeepsRegistrationOrder(t *testing.T) {
	line := script.Line{Number: 1, Text: "close the door"}
	transcripts := takes(
		"first.mp4", "please close the door gently",
		"second.mp4", "now close the door again",
	)

	candidates := match.FindCandidates(line, transcripts, 0)
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	if candidates[0].Score != candidates[1].Score {
		t.Fatalf("test expects a tie, got %v vs %v", candidates[0].Score, candidates[1].Score)
	}
	if candidates[0].SourceID != "first.mp4" {
		t.Errorf("tie broke to %q, want first.mp4", candidates[0].SourceID)
	}
}

func TestMinScoreFiltersBatchMode(t *testing.T) {
	line := script.Line{Number: 1, Text: "a very specific sentence about astronomy"}
	transcripts := takes("noise.mp4", "completely different words with no overlap at all")

	if got := match.FindCandidates(line, transcripts, 0.5); len(got) != 0 {
		t.Errorf("expected no candidates above 0.5, got %+v", got)
	}
}

func TestBestHasNoFloor(t *testing.T) {
	line := script.Line{Number: 1, Text: "a very specific sentence about astronomy"}
	transcripts := takes("noise.mp4", "completely different words with no overlap at all")

	best, ok := match.Best(line, transcripts)
	if !ok {
		t.Fatal("Best should return the maximum even below any threshold")
	}
	if best.SourceID != "noise.mp4" {
		t.Errorf("best = %+v", best)
	}
}

func TestUnmatchableLineYieldsNothing(t *testing.T) {
	line := script.Line{Number: 1, Text: "?!... ---"}
	transcripts := takes("a.mp4", "anything at all")

	if got := match.FindCandidates(line, transcripts, 0); len(got) != 0 {
		t.Errorf("punctuation-only line produced candidates: %+v", got)
	}
	if _, ok := match.Best(line, transcripts); ok {
		t.Error("Best should fail for unmatchable line")
	}
}

func TestPhraseBoostNeverDecreasesScore(t *testing.T) {
	// The transcript contains a 4-word run of the 6-word line verbatim but
	// diverges heavily elsewhere, so the boost must beat the raw ratio.
	line := script.Line{Number: 1, Text: "please take the dog out now"}
	trText := "umm so anyway take the dog out I said and then lots of other chatter follows here"
	transcripts := takes("a.mp4", trText)

	candidates := match.FindCandidates(line, transcripts, 0)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	ratio := textutil.Ratio(textutil.Normalize(line.Text), textutil.Normalize(trText))
	if candidates[0].Score < ratio {
		t.Errorf("final score %v below whole-string ratio %v", candidates[0].Score, ratio)
	}
	// 4-word window of a 6-word line: 0.5 + 0.5*4/6.
	want := 0.5 + 0.5*4.0/6.0
	if diff := candidates[0].Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("boost score = %v, want %v", candidates[0].Score, want)
	}
	if candidates[0].MatchedSpan != "take the dog out" {
		t.Errorf("matched span = %q, want the boosted phrase", candidates[0].MatchedSpan)
	}
}

func TestShortLinesSkipPhraseBoost(t *testing.T) {
	// Two words: only containment or whole-string ratio can apply.
	line := script.Line{Number: 1, Text: "dog out"}
	trText := "the dog ran somewhere and later went out the gate after a very long day"
	transcripts := takes("a.mp4", trText)

	candidates := match.FindCandidates(line, transcripts, 0)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	want := textutil.Ratio(textutil.Normalize(line.Text), textutil.Normalize(trText))
	if candidates[0].Score != want {
		t.Errorf("score = %v, want plain ratio %v", candidates[0].Score, want)
	}
}

func TestMatchedSpanStaysValidUTF8(t *testing.T) {
	// A long accented transcript forces the preview to cut mid-text; the cut
	// must land on a rune boundary.
	long := "x" + strings.Repeat("é", 100)
	line := script.Line{Number: 1, Text: "zzz yyy xxx www"}

	best, ok := match.Best(line, []transcript.Transcript{{SourceID: "clip_01.mp4", Text: long}})
	if !ok {
		t.Fatal("expected a candidate")
	}
	if !utf8.ValidString(best.MatchedSpan) {
		t.Fatalf("matched span is invalid UTF-8: %q", best.MatchedSpan)
	}
	if len(best.MatchedSpan) == 0 || len(best.MatchedSpan) > 100 {
		t.Fatalf("matched span length = %d, want a bounded preview", len(best.MatchedSpan))
	}
}

func TestScoreWithinBounds(t *testing.T) {
	lines := []string{
		"take the dog out",
		"close the door",
		"a b c",
		"one extremely long line of dialogue that keeps going and going with many words in it",
	}
	transcripts := takes(
		"a.mp4", "ok take the dog out now",
		"b.mp4", "please close the door gently",
		"c.mp4", "",
	)
	for i, text := range lines {
		for _, c := range match.FindCandidates(script.Line{Number: i + 1, Text: text}, transcripts, 0) {
			if c.Score < 0 || c.Score > 1 {
				t.Errorf("score %v out of range for line %q take %q", c.Score, text, c.SourceID)
			}
		}
	}
}
