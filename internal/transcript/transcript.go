// Package transcript loads and registers per-take ASR transcripts.
//
// Each take has a transcript directory produced by the external ASR tool
// containing an out.txt plain text artifact and/or an out.json structured
// artifact. The JSON artifact is accepted in three historical shapes: an
// object with a "text" field, an object with a "segments" list, or a bare
// list of timed segments. Transcripts are immutable once registered.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"stitch/internal/services"
)

// Transcript is the machine-generated text for one take. SourceID is the
// take's identifier (its video file name).
type Transcript struct {
	SourceID string
	Text     string
}

// Segment is a timed transcript span from a structured artifact. Start and
// End are seconds from the beginning of the take; they are advisory only and
// not guaranteed to be phrase-accurate.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Artifact file names the ASR tool writes per take.
const (
	TextArtifact = "out.txt"
	JSONArtifact = "out.json"
)

// jsonArtifact covers the object shapes of out.json.
type jsonArtifact struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// LoadText extracts the transcript text for a take from its artifact
// directory. The plain text artifact wins when both are present.
func LoadText(dir string) (string, error) {
	txtPath := filepath.Join(dir, TextArtifact)
	if data, err := os.ReadFile(txtPath); err == nil {
		return strings.TrimSpace(string(data)), nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w", txtPath, err)
	}

	jsonPath := filepath.Join(dir, JSONArtifact)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "transcript", "load", dir, err)
		}
		return "", fmt.Errorf("read %s: %w", jsonPath, err)
	}
	text, err := decodeJSONText(data)
	if err != nil {
		return "", services.Wrap(services.ErrMalformed, "transcript", "parse", jsonPath, err)
	}
	return text, nil
}

// LoadSegments reads timed segments from a take's JSON artifact. Returns nil
// segments without error when the artifact carries only flat text.
func LoadSegments(dir string) ([]Segment, error) {
	jsonPath := filepath.Join(dir, JSONArtifact)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "transcript", "load segments", dir, err)
		}
		return nil, fmt.Errorf("read %s: %w", jsonPath, err)
	}

	var direct []Segment
	if err := json.Unmarshal(data, &direct); err == nil {
		return direct, nil
	}
	var artifact jsonArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "transcript", "parse segments", jsonPath, err)
	}
	return artifact.Segments, nil
}

func decodeJSONText(data []byte) (string, error) {
	var artifact jsonArtifact
	if err := json.Unmarshal(data, &artifact); err == nil {
		if artifact.Text != "" {
			return strings.TrimSpace(artifact.Text), nil
		}
		if len(artifact.Segments) > 0 {
			return joinSegments(artifact.Segments), nil
		}
		// Valid object with neither field decodes to empty text.
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			return "", nil
		}
	}

	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return "", fmt.Errorf("unrecognized transcript artifact shape: %w", err)
	}
	return joinSegments(segments), nil
}

func joinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
