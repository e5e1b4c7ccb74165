package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testSettings() Settings {
	return Settings{
		Binary:       "ffmpeg",
		FrameRate:    24,
		CRF:          23,
		Preset:       "veryfast",
		AudioBitrate: "192k",
		SampleRate:   48000,
		LoudnormI:    -16,
		LoudnormTP:   -1.5,
		LoudnormLRA:  11,
	}
}

type recordedCall struct {
	name string
	args []string
}

func recordingProcessor(t *testing.T) (*Processor, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	p := &Processor{
		Settings: testSettings(),
		Runner: func(ctx context.Context, name string, args ...string) error {
			calls = append(calls, recordedCall{name: name, args: args})
			return nil
		},
	}
	return p, &calls
}

func TestExtractBuildsEncodeProfile(t *testing.T) {
	p, calls := recordingProcessor(t)

	if err := p.Extract(context.Background(), "in.mp4", "out.mp4", 1.5, 4.0); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(*calls))
	}
	call := (*calls)[0]
	if call.name != "ffmpeg" {
		t.Fatalf("binary = %s, want ffmpeg", call.name)
	}
	joined := strings.Join(call.args, " ")
	for _, want := range []string{
		"-ss 1.5",
		"-i in.mp4",
		"-t 2.5",
		"-c:v libx264",
		"-preset veryfast",
		"-crf 23",
		"-pix_fmt yuv420p",
		"-af loudnorm=I=-16:TP=-1.5:LRA=11",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if call.args[len(call.args)-1] != "out.mp4" {
		t.Errorf("output must be the final argument: %s", joined)
	}
}

func TestExtractRejectsEmptyRange(t *testing.T) {
	p, _ := recordingProcessor(t)
	if err := p.Extract(context.Background(), "in.mp4", "out.mp4", 3.0, 3.0); err == nil {
		t.Fatal("expected error for empty range")
	}
}

func TestConcatModes(t *testing.T) {
	p, calls := recordingProcessor(t)

	if err := p.Concat(context.Background(), "list.txt", "final.mp4", true); err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	if err := p.Concat(context.Background(), "list.txt", "final.mp4", false); err != nil {
		t.Fatalf("Concat failed: %v", err)
	}

	fast := strings.Join((*calls)[0].args, " ")
	if !strings.Contains(fast, "-f concat -safe 0 -i list.txt") || !strings.Contains(fast, "-c copy") {
		t.Errorf("fast concat args wrong: %s", fast)
	}
	if strings.Contains(fast, "libx264") {
		t.Errorf("fast concat must not re-encode: %s", fast)
	}

	full := strings.Join((*calls)[1].args, " ")
	for _, want := range []string{"libx264", "-r 24", "-vsync cfr", "-async 1"} {
		if !strings.Contains(full, want) {
			t.Errorf("re-encode concat missing %q: %s", want, full)
		}
	}
}

func TestWriteConcatList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	inputs := []string{"/tmp/seg_001.mp4", "/tmp/o'brien.mp4"}
	if err := WriteConcatList(path, inputs); err != nil {
		t.Fatalf("WriteConcatList failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "file '/tmp/seg_001.mp4'\n") {
		t.Errorf("missing plain entry: %q", content)
	}
	if !strings.Contains(content, `'/tmp/o'\''brien.mp4'`) {
		t.Errorf("missing escaped entry: %q", content)
	}

	if err := WriteConcatList(path, nil); err == nil {
		t.Fatal("expected error for empty inputs")
	}
}

func TestAddMusicFilterGraph(t *testing.T) {
	p, calls := recordingProcessor(t)

	mix := MusicMix{
		MusicPath:       "music.mp3",
		Volume:          0.15,
		DialogueVolume:  1,
		FadeIn:          2,
		FadeOut:         3,
		Loop:            true,
		DurationSeconds: 30,
	}
	if err := p.AddMusic(context.Background(), "final.mp4", "scored.mp4", mix); err != nil {
		t.Fatalf("AddMusic failed: %v", err)
	}
	joined := strings.Join((*calls)[0].args, " ")
	for _, want := range []string{
		"-stream_loop -1",
		"volume=0.15",
		"afade=t=in:st=0:d=2",
		"afade=t=out:st=27:d=3",
		"amix=inputs=2:duration=first",
		"-map 0:v",
		"-c:v copy",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("music args missing %q: %s", want, joined)
		}
	}

	if err := p.AddMusic(context.Background(), "final.mp4", "scored.mp4", MusicMix{}); err == nil {
		t.Fatal("expected error when music path missing")
	}
}
