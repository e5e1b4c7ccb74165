// Package match scores how well each take's transcript contains a script
// line and estimates where inside a take the line's audio occurs.
//
// Scores combine three signals, strongest first: exact substring containment
// of the normalized line (score 1.0), a sliding-window phrase boost for long
// literal sub-phrases, and a whole-string sequence ratio. ASR transcripts
// are noisy, so a long exact phrase match is treated as strong evidence even
// when the surrounding text diverges.
package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"stitch/internal/script"
	"stitch/internal/textutil"
	"stitch/internal/transcript"
)

// Sliding-window phrase boost bounds: windows run from min(words, maxWindow)
// down to minWindow, and only lines of at least minBoostWords words qualify.
const (
	minWindow     = 3
	maxWindow     = 10
	minBoostWords = 3
)

// Candidate is a scored hypothesis that a take contains a script line.
// Candidates are derived data, recomputed whenever matching runs.
type Candidate struct {
	LineNumber int
	SourceID   string
	// Score is in [0, 1]; 1.0 means the normalized line appears verbatim.
	Score float64
	// MatchedSpan is the phrase or excerpt that produced the score, for
	// preview display and reports.
	MatchedSpan string
}

// FindCandidates scores line against every transcript and returns candidates
// with score >= minScore, ordered by score descending. Ties keep the order
// transcripts were registered in (first seen wins). A line that normalizes
// to the empty string is unmatchable and yields no candidates.
func FindCandidates(line script.Line, transcripts []transcript.Transcript, minScore float64) []Candidate {
	lineClean := textutil.Normalize(line.Text)
	if lineClean == "" {
		return nil
	}

	candidates := make([]Candidate, 0, len(transcripts))
	for _, tr := range transcripts {
		score, span := scoreTranscript(lineClean, line.Text, tr.Text)
		if score < minScore {
			continue
		}
		candidates = append(candidates, Candidate{
			LineNumber:  line.Number,
			SourceID:    tr.SourceID,
			Score:       score,
			MatchedSpan: span,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// Best returns the single highest-scoring candidate for line across all
// transcripts, regardless of any threshold. It reports false when the line
// is unmatchable or no transcripts exist.
func Best(line script.Line, transcripts []transcript.Transcript) (Candidate, bool) {
	candidates := FindCandidates(line, transcripts, 0)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// scoreTranscript computes the final score of one transcript for a
// normalized line, along with the matched span used for previews.
func scoreTranscript(lineClean, lineRaw, transcriptText string) (float64, string) {
	transClean := textutil.Normalize(transcriptText)
	if transClean == "" {
		return 0, ""
	}

	// Exact containment short-circuits all other scoring.
	if strings.Contains(transClean, lineClean) {
		return 1.0, lineRaw
	}

	score := textutil.Ratio(lineClean, transClean)
	span := excerpt(transcriptText)

	if phrase, boost, ok := phraseBoost(lineClean, transClean); ok && boost > score {
		score = boost
		span = phrase
	}
	return score, span
}

// phraseBoost finds the largest contiguous sub-phrase of the line that
// appears verbatim in the transcript. The boost scales with the share of the
// line the phrase covers: 0.5 + 0.5 * windowSize/lineWords, so even the
// smallest qualifying phrase beats a weak whole-string ratio.
func phraseBoost(lineClean, transClean string) (string, float64, bool) {
	words := strings.Split(lineClean, " ")
	if len(words) < minBoostWords {
		return "", 0, false
	}
	largest := len(words)
	if largest > maxWindow {
		largest = maxWindow
	}
	for size := largest; size >= minWindow; size-- {
		for start := 0; start+size <= len(words); start++ {
			phrase := strings.Join(words[start:start+size], " ")
			if strings.Contains(transClean, phrase) {
				boost := 0.5 + 0.5*float64(size)/float64(len(words))
				return phrase, boost, true
			}
		}
	}
	return "", 0, false
}

// excerpt returns a short transcript preview for candidates that matched on
// whole-string similarity alone.
func excerpt(text string) string {
	const max = 100
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
