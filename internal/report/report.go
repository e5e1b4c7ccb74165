// Package report serializes the line-to-take matching results to a durable,
// human-readable text document and parses it back.
//
// The format is a stability contract: a report written by one run must stay
// parseable by later runs so assembly can be re-driven, paused, or handed to
// an external selector. Each selected take gets a block keyed by its output
// ordinal; a trailing section lists every line's ranked candidates so
// re-planning does not require re-matching.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"stitch/internal/match"
	"stitch/internal/plan"
	"stitch/internal/services"
)

// header identifies the report format; the reader refuses anything else.
const header = "VIDEO MATCHING REPORT - LINE BY LINE"

const rule = "======================================================================"
const blockRule = "----------------------------------------------------------------------"

// videoExtensions is the fixed take-name pattern the parser keys on.
var videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v"}

var (
	videoLinePattern     = regexp.MustCompile(`^VIDEO (\d+): (.+)$`)
	scriptLinePattern    = regexp.MustCompile(`^Script Line (\d+): (.*)$`)
	confidencePattern    = regexp.MustCompile(`^Confidence: ([0-9.]+)%$`)
	matchedTextPattern   = regexp.MustCompile(`^Matched Text: (.*)$`)
	trimSecondsPattern   = regexp.MustCompile(`^Trim: ([0-9.]+)s - ([0-9.]+)s$`)
	trimRatioPattern     = regexp.MustCompile(`^Trim: ([0-9.]+)% - ([0-9.]+)%$`)
	candidateLinePattern = regexp.MustCompile(`^Line (\d+): (.*)$`)
	candidatePattern     = regexp.MustCompile(`^-> (.+?) \(([0-9.]+)%\)(?:: (.*))?$`)
)

// Document is the report payload: the planned selections plus the ranked
// candidate lists they were chosen from.
type Document struct {
	ScriptLineCount  int
	TakeCount        int
	Selections       []plan.Selection
	CandidatesByLine map[int][]match.Candidate
}

// Codec reads and writes matching reports.
type Codec struct {
	// AnyExtension accepts take names with arbitrary file extensions when
	// parsing. Off by default: the take-name pattern is part of the format
	// contract, so widening it is opt-in.
	AnyExtension bool
	// TranscriptFor, when set, lets Write include a transcript excerpt in
	// each take block. Purely informational; the reader ignores it.
	TranscriptFor func(sourceID string) (string, bool)
}

// Write renders doc to w.
func (c *Codec) Write(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n%s\n\n", header, rule)
	fmt.Fprintf(bw, "Total script lines: %d\n", doc.ScriptLineCount)
	fmt.Fprintf(bw, "Total videos processed: %d\n", doc.TakeCount)
	fmt.Fprintf(bw, "Unique videos matched: %d\n", len(doc.Selections))
	fmt.Fprintf(bw, "Total line matches: %d\n\n%s\n\n", totalMatches(doc.CandidatesByLine), rule)

	for i, sel := range doc.Selections {
		fmt.Fprintf(bw, "VIDEO %02d: %s\n", i+1, sel.SourceID)
		fmt.Fprintf(bw, "  Script Line %d: %s\n", sel.LineNumber, singleLine(sel.LineText))
		fmt.Fprintf(bw, "  Confidence: %.2f%%\n", sel.Score*100)
		fmt.Fprintf(bw, "  Matched Text: %s\n", singleLine(sel.Matched))
		switch sel.Trim.Kind {
		case plan.TrimSeconds:
			fmt.Fprintf(bw, "  Trim: %.3fs - %.3fs\n", sel.Trim.Start, sel.Trim.End)
		case plan.TrimRatio:
			fmt.Fprintf(bw, "  Trim: %.2f%% - %.2f%%\n", sel.Trim.Start*100, sel.Trim.End*100)
		}
		if sel.Manual {
			fmt.Fprintf(bw, "  Selection: manual\n")
		}
		if c.TranscriptFor != nil {
			if text, ok := c.TranscriptFor(sel.SourceID); ok {
				fmt.Fprintf(bw, "  Full Transcription: %s\n", excerpt(singleLine(text)))
			}
		}
		fmt.Fprintf(bw, "\n%s\n\n", blockRule)
	}

	fmt.Fprintf(bw, "%s\nALL LINE MATCHES (including duplicates):\n%s\n\n", rule, rule)
	for _, lineNumber := range sortedLineNumbers(doc.CandidatesByLine) {
		candidates := doc.CandidatesByLine[lineNumber]
		if len(candidates) == 0 {
			continue
		}
		fmt.Fprintf(bw, "Line %d: %s\n", lineNumber, lineTextFor(doc, lineNumber))
		for _, candidate := range candidates {
			fmt.Fprintf(bw, "  -> %s (%.2f%%)", candidate.SourceID, candidate.Score*100)
			if span := singleLine(candidate.MatchedSpan); span != "" {
				fmt.Fprintf(bw, ": %s", span)
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// WriteFile renders doc to path.
func (c *Codec) WriteFile(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := c.Write(file, doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Read parses a report back into a Document. Unrecognized lines are skipped;
// a missing header or an unparseable block is a malformed-artifact error.
func (c *Codec) Read(r io.Reader) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	doc := Document{CandidatesByLine: make(map[int][]match.Candidate)}

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != header {
		return Document{}, services.Wrap(services.ErrMalformed, "report", "parse", "missing report header", nil)
	}

	var current *plan.Selection
	var candidateLine int
	candidateLine = -1
	inCandidates := false

	flush := func() {
		if current != nil {
			doc.Selections = append(doc.Selections, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || line == rule || line == blockRule:
			continue
		case strings.HasPrefix(line, "Total script lines:"):
			doc.ScriptLineCount = trailingInt(line)
		case strings.HasPrefix(line, "Total videos processed:"):
			doc.TakeCount = trailingInt(line)
		case strings.HasPrefix(line, "ALL LINE MATCHES"):
			flush()
			inCandidates = true
		case inCandidates:
			if m := candidateLinePattern.FindStringSubmatch(line); m != nil {
				candidateLine, _ = strconv.Atoi(m[1])
				continue
			}
			if m := candidatePattern.FindStringSubmatch(line); m != nil && candidateLine > 0 {
				if !c.validTakeName(m[1]) {
					continue
				}
				score, err := strconv.ParseFloat(m[2], 64)
				if err != nil {
					return Document{}, services.Wrap(services.ErrMalformed, "report", "parse", line, err)
				}
				doc.CandidatesByLine[candidateLine] = append(doc.CandidatesByLine[candidateLine], match.Candidate{
					LineNumber:  candidateLine,
					SourceID:    m[1],
					Score:       score / 100,
					MatchedSpan: m[3],
				})
			}
		default:
			if m := videoLinePattern.FindStringSubmatch(line); m != nil {
				flush()
				if !c.validTakeName(m[2]) {
					continue
				}
				current = &plan.Selection{SourceID: m[2]}
				continue
			}
			if current == nil {
				continue
			}
			switch {
			case scriptLinePattern.MatchString(line):
				m := scriptLinePattern.FindStringSubmatch(line)
				number, err := strconv.Atoi(m[1])
				if err != nil || number < 1 {
					return Document{}, services.Wrap(services.ErrMalformed, "report", "parse", line, err)
				}
				current.LineNumber = number
				current.LineText = m[2]
			case confidencePattern.MatchString(line):
				m := confidencePattern.FindStringSubmatch(line)
				score, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					return Document{}, services.Wrap(services.ErrMalformed, "report", "parse", line, err)
				}
				current.Score = score / 100
			case matchedTextPattern.MatchString(line):
				current.Matched = matchedTextPattern.FindStringSubmatch(line)[1]
			case trimSecondsPattern.MatchString(line):
				m := trimSecondsPattern.FindStringSubmatch(line)
				start, _ := strconv.ParseFloat(m[1], 64)
				end, _ := strconv.ParseFloat(m[2], 64)
				current.Trim = plan.Trim{Kind: plan.TrimSeconds, Start: start, End: end}
			case trimRatioPattern.MatchString(line):
				m := trimRatioPattern.FindStringSubmatch(line)
				start, _ := strconv.ParseFloat(m[1], 64)
				end, _ := strconv.ParseFloat(m[2], 64)
				current.Trim = plan.Trim{Kind: plan.TrimRatio, Start: start / 100, End: end / 100}
			case line == "Selection: manual":
				current.Manual = true
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("read report: %w", err)
	}
	return doc, nil
}

// ReadFile parses the report at path.
func (c *Codec) ReadFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, services.Wrap(services.ErrNotFound, "report", "open", path, err)
		}
		return Document{}, fmt.Errorf("open report: %w", err)
	}
	defer file.Close()
	return c.Read(file)
}

func (c *Codec) validTakeName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if c.AnyExtension {
		dot := strings.LastIndex(name, ".")
		return dot > 0 && dot < len(name)-1
	}
	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func totalMatches(candidatesByLine map[int][]match.Candidate) int {
	total := 0
	for _, candidates := range candidatesByLine {
		total += len(candidates)
	}
	return total
}

func sortedLineNumbers(candidatesByLine map[int][]match.Candidate) []int {
	numbers := make([]int, 0, len(candidatesByLine))
	for number := range candidatesByLine {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	return numbers
}

func lineTextFor(doc Document, lineNumber int) string {
	for _, sel := range doc.Selections {
		if sel.LineNumber == lineNumber {
			return singleLine(sel.LineText)
		}
	}
	return ""
}

// trailingInt parses the integer after the final colon in a header count
// line; malformed counts read as zero rather than failing the whole parse.
func trailingInt(line string) int {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0
	}
	return n
}

func singleLine(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.TrimSpace(text)
}

func excerpt(text string) string {
	const max = 200
	if len(text) <= max {
		return text
	}
	// Cut on a rune boundary so the excerpt stays valid UTF-8.
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
