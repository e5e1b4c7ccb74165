package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
		},
	}
	if !result.HasVideo() {
		t.Fatal("expected a video stream")
	}
	if !result.HasAudio() {
		t.Fatal("expected an audio stream")
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{Duration: "bad"},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.HasVideo() || result.HasAudio() {
		t.Fatal("expected no streams")
	}
}
