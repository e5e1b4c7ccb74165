// Package transcribe runs the external ASR tool over registered takes and
// lays out the per-take transcript artifacts the matcher consumes.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stitch/internal/config"
	"stitch/internal/logging"
	"stitch/internal/media/ffprobe"
	"stitch/internal/services"
	"stitch/internal/takes"
	"stitch/internal/transcript"
)

// Service drives whisper transcription for source videos.
type Service struct {
	cfg           config.Transcriber
	transcriptDir string
	probeBinary   string
	// Force re-transcribes takes whose artifacts already exist.
	Force bool

	runner        services.CommandRunner
	probeDuration func(ctx context.Context, path string) (float64, error)
	logger        *slog.Logger
}

// NewService creates a transcription service from configuration.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	svc := &Service{
		cfg:           cfg.Transcriber,
		transcriptDir: cfg.Paths.TranscriptDir,
		probeBinary:   cfg.Assembly.FFprobeBinary,
		runner:        services.RunCommand,
		logger:        logging.NewComponentLogger(logger, "transcribe"),
	}
	svc.probeDuration = func(ctx context.Context, path string) (float64, error) {
		return ffprobe.Duration(ctx, svc.probeBinary, path)
	}
	return svc
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.runner = runner
}

// WithDurationProbe sets a custom duration probe (for testing).
func (s *Service) WithDurationProbe(probe func(ctx context.Context, path string) (float64, error)) {
	s.probeDuration = probe
}

// OutputDir returns the artifact directory for one source video.
func (s *Service) OutputDir(sourceID string) string {
	stem := strings.TrimSuffix(sourceID, filepath.Ext(sourceID))
	return filepath.Join(s.transcriptDir, stem)
}

// Transcribe runs whisper over sourcePath and returns the transcript text.
// Existing artifacts are reused unless Force is set.
func (s *Service) Transcribe(ctx context.Context, sourceID, sourcePath string) (string, error) {
	outputDir := s.OutputDir(sourceID)
	textPath := filepath.Join(outputDir, transcript.TextArtifact)

	if !s.Force {
		if data, err := os.ReadFile(textPath); err == nil {
			s.logger.Debug("reusing existing transcript", "source", sourceID)
			return string(data), nil
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure transcript dir: %w", err)
	}

	args := s.buildArgs(sourcePath, outputDir)
	if err := s.runner(ctx, s.binary(), args...); err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	if err := s.normalizeArtifacts(sourceID, outputDir); err != nil {
		return "", err
	}

	data, err := os.ReadFile(textPath)
	if err != nil {
		return "", services.Wrap(services.ErrMalformed, "transcribe", "read artifact",
			fmt.Sprintf("whisper produced no text for %s", sourceID), err)
	}
	return string(data), nil
}

// ProcessPending transcribes every pending take in the registry, recording
// transcript text and probed duration. Failed takes are marked and skipped
// rather than aborting the run.
func (s *Service) ProcessPending(ctx context.Context, store *takes.Store) (int, error) {
	pending, err := store.ListByStatus(ctx, takes.StatusPending)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, take := range pending {
		if err := ctx.Err(); err != nil {
			return completed, err
		}

		take.Status = takes.StatusTranscribing
		if err := store.Update(ctx, take); err != nil {
			return completed, err
		}
		s.logger.Info("transcribing take", "source", take.SourceID)

		duration, err := s.probeDuration(ctx, take.SourcePath)
		if err != nil {
			s.logger.Warn("duration probe failed", "source", take.SourceID, logging.Error(err))
			if markErr := store.MarkFailed(ctx, take.ID, err.Error()); markErr != nil {
				return completed, markErr
			}
			continue
		}

		text, err := s.Transcribe(ctx, take.SourceID, take.SourcePath)
		if err != nil {
			s.logger.Warn("transcription failed", "source", take.SourceID, logging.Error(err))
			if markErr := store.MarkFailed(ctx, take.ID, err.Error()); markErr != nil {
				return completed, markErr
			}
			continue
		}

		if err := store.MarkTranscribed(ctx, take.ID, strings.TrimSpace(text), duration); err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

func (s *Service) binary() string {
	if binary := strings.TrimSpace(s.cfg.Binary); binary != "" {
		return binary
	}
	return "whisper"
}

func (s *Service) buildArgs(sourcePath, outputDir string) []string {
	args := []string{
		sourcePath,
		"--model", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", "all",
	}
	if lang := strings.TrimSpace(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

// normalizeArtifacts renames whisper's stem-named outputs to the fixed
// artifact names the transcript loader expects.
func (s *Service) normalizeArtifacts(sourceID, outputDir string) error {
	stem := strings.TrimSuffix(sourceID, filepath.Ext(sourceID))
	renames := map[string]string{
		stem + ".txt":  transcript.TextArtifact,
		stem + ".json": transcript.JSONArtifact,
	}
	for from, to := range renames {
		source := filepath.Join(outputDir, from)
		if _, err := os.Stat(source); err != nil {
			continue
		}
		if err := os.Rename(source, filepath.Join(outputDir, to)); err != nil {
			return fmt.Errorf("normalize artifact %s: %w", from, err)
		}
	}
	return nil
}
