package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stitch/internal/config"
	"stitch/internal/logging"
	"stitch/internal/media/ffmpeg"
	"stitch/internal/services"
)

// Renderer extracts timeline segments concurrently and joins them into the
// final output.
type Renderer struct {
	workDir    string
	workers    int
	fastConcat bool
	processor  *ffmpeg.Processor
	logger     *slog.Logger
}

// NewRenderer builds a Renderer from configuration.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	return &Renderer{
		workDir:    cfg.Paths.WorkDir,
		workers:    cfg.Assembly.Workers,
		fastConcat: cfg.Assembly.FastConcat,
		processor:  ffmpeg.NewProcessor(ffmpeg.SettingsFromConfig(cfg.Assembly)),
		logger:     logging.NewComponentLogger(logger, "assemble"),
	}
}

// WithProcessor replaces the ffmpeg processor (for testing).
func (r *Renderer) WithProcessor(p *ffmpeg.Processor) {
	r.processor = p
}

// Render cuts every segment and concatenates the survivors into outputPath.
// A failed extraction drops that segment and continues; a failed concat, or a
// timeline with no surviving segments, fails the render. The per-render
// session directory is removed on every exit path.
func (r *Renderer) Render(ctx context.Context, timeline Timeline, outputPath string) error {
	if len(timeline.Segments) == 0 {
		return services.Wrap(services.ErrValidation, "assemble", "render", "empty timeline", nil)
	}

	sessionDir := filepath.Join(r.workDir, "render-"+uuid.NewString())
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(sessionDir); err != nil {
			r.logger.Warn("session cleanup failed", "dir", sessionDir, logging.Error(err))
		}
	}()

	extracted := make([]string, len(timeline.Segments))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	workers := r.workers
	if workers < 1 {
		workers = 1
	}
	group.SetLimit(workers)

	for index, segment := range timeline.Segments {
		index, segment := index, segment
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			target := filepath.Join(sessionDir, fmt.Sprintf("seg_%03d.mp4", segment.Ordinal))
			err := r.processor.Extract(groupCtx, segment.SourcePath, target, segment.StartSeconds, segment.EndSeconds)
			if err != nil {
				// Losing one segment is recoverable, the cut list just
				// gets shorter. Cancellation is not.
				if groupCtx.Err() != nil {
					return err
				}
				r.logger.Warn("segment extraction failed",
					"source", segment.SourceID,
					"line", segment.LineNumber,
					logging.Error(err))
				return nil
			}
			mu.Lock()
			extracted[index] = target
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("extract segments: %w", err)
	}

	inputs := make([]string, 0, len(extracted))
	for _, path := range extracted {
		if path != "" {
			inputs = append(inputs, path)
		}
	}
	if len(inputs) == 0 {
		return services.Wrap(services.ErrExternalTool, "assemble", "render", "every segment extraction failed", nil)
	}
	if len(inputs) < len(timeline.Segments) {
		r.logger.Warn("rendering with missing segments",
			"requested", len(timeline.Segments),
			"extracted", len(inputs))
	}

	listPath := filepath.Join(sessionDir, "concat.txt")
	if err := ffmpeg.WriteConcatList(listPath, inputs); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	if err := r.processor.Concat(ctx, listPath, outputPath, r.fastConcat); err != nil {
		return err
	}

	r.logger.Info("render complete", "output", outputPath, "segments", len(inputs))
	return nil
}
