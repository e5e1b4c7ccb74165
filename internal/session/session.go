// Package session wires one stitch run together: the take registry, the
// single-writer work directory lock, and the match/plan/report flow the CLI
// commands drive. All run state hangs off the Session value.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"stitch/internal/config"
	"stitch/internal/logging"
	"stitch/internal/match"
	"stitch/internal/plan"
	"stitch/internal/report"
	"stitch/internal/script"
	"stitch/internal/services"
	"stitch/internal/takes"
	"stitch/internal/transcript"
)

// VideoExtensions are the file extensions treated as takes, lowercase.
var VideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v"}

// ReportName is the matching report file written into the output directory.
const ReportName = "matching_report.txt"

// Session owns the shared state of one stitch invocation.
type Session struct {
	Config *config.Config
	Logger *slog.Logger
	Store  *takes.Store

	lock *flock.Flock
}

// Open acquires the work directory lock and opens the take registry.
func Open(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.WorkDir, "stitch.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work dir lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "session", "lock",
			"another stitch run holds the work directory", nil)
	}

	store, err := takes.Open(cfg)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return &Session{
		Config: cfg,
		Logger: logging.NewComponentLogger(logger, "session"),
		Store:  store,
		lock:   lock,
	}, nil
}

// Close releases the registry and the work directory lock.
func (s *Session) Close() error {
	var firstErr error
	if err := s.Store.Close(); err != nil {
		firstErr = err
	}
	if err := s.lock.Unlock(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ScanVideos registers every video file in the configured video directory,
// returning the number of newly registered takes.
func (s *Session) ScanVideos(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.Config.Paths.VideoDir)
	if err != nil {
		return 0, services.Wrap(services.ErrNotFound, "session", "scan videos",
			s.Config.Paths.VideoDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	registered := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsVideoName(entry.Name()) {
			continue
		}
		existing, err := s.Store.GetBySourceID(ctx, entry.Name())
		if err != nil {
			return registered, err
		}
		if existing != nil {
			continue
		}
		path := filepath.Join(s.Config.Paths.VideoDir, entry.Name())
		if _, err := s.Store.Register(ctx, entry.Name(), path); err != nil {
			return registered, err
		}
		registered++
	}
	s.Logger.Info("video scan complete", "new", registered)
	return registered, nil
}

// IsVideoName reports whether name carries a known video extension.
func IsVideoName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range VideoExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Takes returns all transcribed takes keyed by source id.
func (s *Session) Takes(ctx context.Context) (map[string]*takes.Take, error) {
	listed, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*takes.Take, len(listed))
	for _, take := range listed {
		byID[take.SourceID] = take
	}
	return byID, nil
}

// Transcripts assembles the matching corpus. Transcribed registry takes are
// preferred; when the registry is empty the transcript directory is loaded
// directly, which lets externally produced artifacts drive a run without a
// transcribe pass.
func (s *Session) Transcripts(ctx context.Context) ([]transcript.Transcript, error) {
	transcribed, err := s.Store.ListByStatus(ctx, takes.StatusTranscribed)
	if err != nil {
		return nil, err
	}
	if len(transcribed) > 0 {
		out := make([]transcript.Transcript, 0, len(transcribed))
		for _, take := range transcribed {
			out = append(out, transcript.Transcript{SourceID: take.SourceID, Text: take.Transcript})
		}
		return out, nil
	}

	registry, err := transcript.LoadDir(s.Config.Paths.TranscriptDir, s.Config.Paths.VideoDir,
		VideoExtensions, s.Logger)
	if err != nil {
		return nil, err
	}
	if registry.Len() == 0 {
		return nil, services.Wrap(services.ErrNotFound, "session", "load transcripts",
			"no transcribed takes; run `stitch transcribe` first", nil)
	}
	return registry.All(), nil
}

// MatchResult is the outcome of matching one script against the corpus.
type MatchResult struct {
	Lines            []script.Line
	Transcripts      []transcript.Transcript
	CandidatesByLine map[int][]match.Candidate
}

// MatchScript loads the script and ranks candidates for every line.
func (s *Session) MatchScript(ctx context.Context, scriptPath string) (*MatchResult, error) {
	lines, err := script.Load(scriptPath)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, services.Wrap(services.ErrValidation, "session", "load script",
			fmt.Sprintf("%s has no usable lines", scriptPath), nil)
	}

	corpus, err := s.Transcripts(ctx)
	if err != nil {
		return nil, err
	}

	candidatesByLine := make(map[int][]match.Candidate, len(lines))
	for _, line := range lines {
		candidates := match.FindCandidates(line, corpus, s.Config.Matching.MinScore)
		if len(candidates) > 0 {
			candidatesByLine[line.Number] = candidates
		}
	}
	s.Logger.Info("matching complete",
		"lines", len(lines),
		"transcripts", len(corpus),
		"matched", len(candidatesByLine))
	return &MatchResult{Lines: lines, Transcripts: corpus, CandidatesByLine: candidatesByLine}, nil
}

// Plan runs the selection planner over a match result with the session's
// confidence threshold, deduplicates, then locates each surviving automatic
// selection's phrase inside its take.
func (s *Session) Plan(result *MatchResult, overrides map[int]plan.Selection) ([]plan.Selection, []script.Line) {
	planner := plan.Planner{
		MinConfidence: s.Config.Matching.MinConfidence,
		Logger:        s.Logger,
	}
	selections, gaps := planner.Plan(result.Lines, result.CandidatesByLine, overrides)

	// Dedupe before locating phrases: located windows are an automatic
	// refinement, not caller intent, so two automatic picks of one take must
	// still collapse to the earliest line. Only explicit trims keep a take
	// duplicated.
	selections = plan.Deduplicate(selections)

	transcriptsByID := make(map[string]string, len(result.Transcripts))
	for _, tr := range result.Transcripts {
		transcriptsByID[tr.SourceID] = tr.Text
	}
	for i, sel := range selections {
		if sel.Trim.Kind != plan.TrimNone || sel.Matched == "" {
			continue
		}
		text, ok := transcriptsByID[sel.SourceID]
		if !ok {
			continue
		}
		start, end := match.Locate(sel.Matched, text)
		if start == 0 && end == 1 {
			continue
		}
		selections[i].Trim = plan.Trim{Kind: plan.TrimRatio, Start: start, End: end}
	}

	return selections, gaps
}

// ReportPath returns the default location of the matching report.
func (s *Session) ReportPath() string {
	return filepath.Join(s.Config.Paths.OutputDir, ReportName)
}

// WriteReport persists the matching report to the output directory.
func (s *Session) WriteReport(result *MatchResult, selections []plan.Selection) (string, error) {
	transcriptsByID := make(map[string]string, len(result.Transcripts))
	for _, tr := range result.Transcripts {
		transcriptsByID[tr.SourceID] = tr.Text
	}

	codec := &report.Codec{
		AnyExtension: s.Config.Matching.AnyExtension,
		TranscriptFor: func(sourceID string) (string, bool) {
			text, ok := transcriptsByID[sourceID]
			return text, ok
		},
	}
	doc := report.Document{
		ScriptLineCount:  len(result.Lines),
		TakeCount:        len(result.Transcripts),
		Selections:       selections,
		CandidatesByLine: result.CandidatesByLine,
	}
	path := s.ReportPath()
	if err := codec.WriteFile(path, doc); err != nil {
		return "", err
	}
	s.Logger.Info("report written", "path", path)
	return path, nil
}

// ReadReport parses a previously written matching report.
func (s *Session) ReadReport(path string) (report.Document, error) {
	if strings.TrimSpace(path) == "" {
		path = s.ReportPath()
	}
	codec := &report.Codec{AnyExtension: s.Config.Matching.AnyExtension}
	return codec.ReadFile(path)
}
