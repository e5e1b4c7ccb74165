package match

import (
	"stitch/internal/textutil"
)

// locateThreshold is the minimum window similarity for a position estimate
// to be trusted; below it the whole take is used.
const locateThreshold = 0.5

// Locate estimates where phrase occurs inside transcriptText, as start and
// end ratios in [0, 1] of the transcript's word sequence. The estimate
// assumes speech rate is roughly uniform across the take, which is a
// documented approximation: the returned ratios are positions in the word
// stream, not timestamps.
//
// When either input normalizes to empty, or no window scores at least 0.5,
// Locate falls back to (0, 1) so the whole take is used as the segment.
func Locate(phrase, transcriptText string) (startRatio, endRatio float64) {
	phraseWords := textutil.Words(phrase)
	transWords := textutil.Words(transcriptText)
	if len(phraseWords) == 0 || len(transWords) == 0 {
		return 0.0, 1.0
	}
	if len(phraseWords) > len(transWords) {
		return 0.0, 1.0
	}

	phraseClean := textutil.Normalize(phrase)
	bestStart := 0
	bestScore := 0.0
	for start := 0; start+len(phraseWords) <= len(transWords); start++ {
		window := joinWords(transWords[start : start+len(phraseWords)])
		score := textutil.Ratio(phraseClean, window)
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}

	if bestScore < locateThreshold {
		return 0.0, 1.0
	}

	total := float64(len(transWords))
	start := float64(bestStart) / total
	end := float64(bestStart+len(phraseWords)) / total
	return start, end
}

func joinWords(words []string) string {
	n := 0
	for _, w := range words {
		n += len(w) + 1
	}
	buf := make([]byte, 0, n)
	for i, w := range words {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, w...)
	}
	return string(buf)
}
