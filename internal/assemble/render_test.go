package assemble_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"stitch/internal/assemble"
	"stitch/internal/logging"
	"stitch/internal/media/ffmpeg"
	"stitch/internal/plan"
	"stitch/internal/takes"
	"stitch/internal/testsupport"
)

// fakeFFmpeg creates the output file named by the final argument, failing
// whenever the input path contains failSubstring.
func fakeFFmpeg(failSubstring string) (*ffmpeg.Processor, *[]string) {
	var mu sync.Mutex
	var invocations []string
	runner := func(ctx context.Context, name string, args ...string) error {
		joined := strings.Join(args, " ")
		mu.Lock()
		invocations = append(invocations, joined)
		mu.Unlock()
		if failSubstring != "" && strings.Contains(joined, failSubstring) {
			return errors.New("simulated ffmpeg failure")
		}
		return os.WriteFile(args[len(args)-1], []byte("media"), 0o644)
	}
	return &ffmpeg.Processor{Settings: ffmpeg.Settings{FrameRate: 24}, Runner: runner}, &invocations
}

func buildTimeline(t *testing.T, videoDir string, sources ...string) assemble.Timeline {
	t.Helper()
	registry := make(map[string]*takes.Take, len(sources))
	selections := make([]plan.Selection, 0, len(sources))
	for i, source := range sources {
		path := testsupport.WriteVideo(t, videoDir, source)
		registry[source] = &takes.Take{SourceID: source, SourcePath: path, DurationSeconds: 10}
		selections = append(selections, plan.Selection{LineNumber: i + 1, SourceID: source})
	}
	timeline, err := assemble.Build(selections, registry, 0.1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return timeline
}

func TestRenderExtractsAndConcatenates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	renderer := assemble.NewRenderer(cfg, logging.NewNop())
	processor, invocations := fakeFFmpeg("")
	renderer.WithProcessor(processor)

	timeline := buildTimeline(t, cfg.Paths.VideoDir, "a.mp4", "b.mp4")
	output := filepath.Join(cfg.Paths.OutputDir, "final.mp4")
	if err := renderer.Render(context.Background(), timeline, output); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if _, err := os.Stat(output); err != nil {
		t.Fatalf("final output missing: %v", err)
	}
	if len(*invocations) != 3 {
		t.Fatalf("invocations = %d, want 2 extracts + 1 concat", len(*invocations))
	}

	// Session directory must be gone after a successful render.
	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "render-") {
			t.Fatalf("session dir left behind: %s", entry.Name())
		}
	}
}

func TestRenderSkipsFailedSegment(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	renderer := assemble.NewRenderer(cfg, logging.NewNop())
	processor, invocations := fakeFFmpeg("bad.mp4")
	renderer.WithProcessor(processor)

	timeline := buildTimeline(t, cfg.Paths.VideoDir, "good.mp4", "bad.mp4")
	output := filepath.Join(cfg.Paths.OutputDir, "final.mp4")
	if err := renderer.Render(context.Background(), timeline, output); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var concat string
	for _, call := range *invocations {
		if strings.Contains(call, "-f concat") {
			concat = call
		}
	}
	if concat == "" {
		t.Fatal("concat never invoked")
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("final output missing: %v", err)
	}
}

func TestRenderFailsWhenEverySegmentFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	renderer := assemble.NewRenderer(cfg, logging.NewNop())
	processor, _ := fakeFFmpeg(".mp4")
	renderer.WithProcessor(processor)

	timeline := buildTimeline(t, cfg.Paths.VideoDir, "a.mp4")
	err := renderer.Render(context.Background(), timeline, filepath.Join(cfg.Paths.OutputDir, "final.mp4"))
	if err == nil {
		t.Fatal("expected render failure when no segment survives")
	}
}

func TestRenderRejectsEmptyTimeline(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	renderer := assemble.NewRenderer(cfg, logging.NewNop())
	if err := renderer.Render(context.Background(), assemble.Timeline{}, "out.mp4"); err == nil {
		t.Fatal("expected error for empty timeline")
	}
}
