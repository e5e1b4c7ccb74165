// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"stitch/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	output, err := services.CaptureCommand(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Duration probes only the container duration of path.
func Duration(ctx context.Context, binary string, path string) (float64, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return 0, err
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		return 0, services.Wrap(services.ErrMalformed, "probe", "ffprobe",
			fmt.Sprintf("no usable duration for %s", path), nil)
	}
	return duration, nil
}

// HasVideo reports whether the container holds at least one video stream.
func (r Result) HasVideo() bool {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return true
		}
	}
	return false
}

// HasAudio reports whether the container holds at least one audio stream.
func (r Result) HasAudio() bool {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return true
		}
	}
	return false
}

// DurationSeconds returns the container duration in seconds, or 0 when absent
// and NaN when unparseable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
