package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"stitch/internal/match"
	"stitch/internal/plan"
	"stitch/internal/services"
)

func sampleDocument() Document {
	return Document{
		ScriptLineCount: 3,
		TakeCount:       4,
		Selections: []plan.Selection{
			{
				LineNumber: 1,
				SourceID:   "clip_07.mp4",
				LineText:   "Take the dog out",
				Score:      0.92,
				Matched:    "take the dog out",
			},
			{
				LineNumber: 2,
				SourceID:   "clip_03.mov",
				LineText:   "Close the door",
				Score:      0.75,
				Matched:    "close the door please",
				Trim:       plan.Trim{Kind: plan.TrimSeconds, Start: 1.25, End: 3.5},
				Manual:     true,
			},
			{
				LineNumber: 3,
				SourceID:   "clip_09.mkv",
				LineText:   "Lights off",
				Score:      1.0,
				Matched:    "lights off",
				Trim:       plan.Trim{Kind: plan.TrimRatio, Start: 0.1, End: 0.6},
			},
		},
		CandidatesByLine: map[int][]match.Candidate{
			1: {
				{LineNumber: 1, SourceID: "clip_07.mp4", Score: 0.92, MatchedSpan: "take the dog out"},
				{LineNumber: 1, SourceID: "clip_02.mp4", Score: 0.41, MatchedSpan: "take the cat out"},
			},
			2: {
				{LineNumber: 2, SourceID: "clip_03.mov", Score: 0.75, MatchedSpan: "close the door please"},
			},
			3: {
				{LineNumber: 3, SourceID: "clip_09.mkv", Score: 1.0, MatchedSpan: "lights off"},
			},
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := &Codec{}
	original := sampleDocument()

	var buf bytes.Buffer
	if err := codec.Write(&buf, original); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	parsed, err := codec.Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if parsed.ScriptLineCount != original.ScriptLineCount {
		t.Errorf("script line count = %d, want %d", parsed.ScriptLineCount, original.ScriptLineCount)
	}
	if parsed.TakeCount != original.TakeCount {
		t.Errorf("take count = %d, want %d", parsed.TakeCount, original.TakeCount)
	}
	if len(parsed.Selections) != len(original.Selections) {
		t.Fatalf("selections = %d, want %d", len(parsed.Selections), len(original.Selections))
	}
	for i, want := range original.Selections {
		got := parsed.Selections[i]
		if got.LineNumber != want.LineNumber || got.SourceID != want.SourceID {
			t.Errorf("selection %d = %s line %d, want %s line %d", i, got.SourceID, got.LineNumber, want.SourceID, want.LineNumber)
		}
		if got.LineText != want.LineText {
			t.Errorf("selection %d line text = %q, want %q", i, got.LineText, want.LineText)
		}
		if got.Matched != want.Matched {
			t.Errorf("selection %d matched = %q, want %q", i, got.Matched, want.Matched)
		}
		if math.Abs(got.Score-want.Score) > 0.0001 {
			t.Errorf("selection %d score = %f, want %f", i, got.Score, want.Score)
		}
		if got.Trim.Kind != want.Trim.Kind {
			t.Errorf("selection %d trim kind = %v, want %v", i, got.Trim.Kind, want.Trim.Kind)
		}
		if math.Abs(got.Trim.Start-want.Trim.Start) > 0.001 || math.Abs(got.Trim.End-want.Trim.End) > 0.001 {
			t.Errorf("selection %d trim = %v, want %v", i, got.Trim, want.Trim)
		}
		if got.Manual != want.Manual {
			t.Errorf("selection %d manual = %v, want %v", i, got.Manual, want.Manual)
		}
	}

	for lineNumber, want := range original.CandidatesByLine {
		got := parsed.CandidatesByLine[lineNumber]
		if len(got) != len(want) {
			t.Fatalf("line %d candidates = %d, want %d", lineNumber, len(got), len(want))
		}
		for i := range want {
			if got[i].SourceID != want[i].SourceID {
				t.Errorf("line %d candidate %d = %s, want %s", lineNumber, i, got[i].SourceID, want[i].SourceID)
			}
			if math.Abs(got[i].Score-want[i].Score) > 0.0001 {
				t.Errorf("line %d candidate %d score = %f, want %f", lineNumber, i, got[i].Score, want[i].Score)
			}
			if got[i].MatchedSpan != want[i].MatchedSpan {
				t.Errorf("line %d candidate %d span = %q, want %q", lineNumber, i, got[i].MatchedSpan, want[i].MatchedSpan)
			}
		}
	}
}

func TestReadToleratesMalformedHeaderCounts(t *testing.T) {
	codec := &Codec{}
	doc, err := codec.Read(strings.NewReader(
		"VIDEO MATCHING REPORT - LINE BY LINE\n" +
			"Total script lines: many\n" +
			"Total videos processed: 7\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if doc.ScriptLineCount != 0 {
		t.Errorf("script line count = %d, want 0", doc.ScriptLineCount)
	}
	if doc.TakeCount != 7 {
		t.Errorf("take count = %d, want 7", doc.TakeCount)
	}
}

func TestExcerptCutsOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 150)
	got := excerpt(long)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt = %q, want ... suffix", got)
	}
}

func TestReadRejectsMissingHeader(t *testing.T) {
	codec := &Codec{}
	_, err := codec.Read(strings.NewReader("not a report\n"))
	if !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected malformed artifact error, got %v", err)
	}
}

func TestReadSkipsUnknownExtensions(t *testing.T) {
	doc := sampleDocument()
	doc.Selections = append(doc.Selections, plan.Selection{
		LineNumber: 4,
		SourceID:   "notes.txt",
		LineText:   "Off format",
		Score:      0.5,
	})

	var buf bytes.Buffer
	codec := &Codec{}
	if err := codec.Write(&buf, doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	parsed, err := codec.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for _, sel := range parsed.Selections {
		if sel.SourceID == "notes.txt" {
			t.Fatal("parser accepted a non-video take name without AnyExtension")
		}
	}

	relaxed := &Codec{AnyExtension: true}
	parsed, err = relaxed.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	found := false
	for _, sel := range parsed.Selections {
		if sel.SourceID == "notes.txt" {
			found = true
		}
	}
	if !found {
		t.Fatal("AnyExtension parser dropped a valid block")
	}
}

func TestWriteIncludesTranscriptExcerpt(t *testing.T) {
	codec := &Codec{
		TranscriptFor: func(sourceID string) (string, bool) {
			if sourceID == "clip_07.mp4" {
				return "ok take the dog out now", true
			}
			return "", false
		},
	}

	var buf bytes.Buffer
	if err := codec.Write(&buf, sampleDocument()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Full Transcription: ok take the dog out now") {
		t.Fatal("transcript excerpt missing from report")
	}
}
