package transcript

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stitch/internal/logging"
	"stitch/internal/services"
)

// Registry holds the immutable transcript set for a run, preserving
// registration order. Matching uses that order for stable tie-breaking, so
// loading is deterministic (directory entries are sorted).
type Registry struct {
	order []string
	byID  map[string]Transcript
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Transcript)}
}

// Add registers a transcript. Re-registering a source ID is rejected because
// transcripts are immutable once loaded.
func (r *Registry) Add(tr Transcript) error {
	if strings.TrimSpace(tr.SourceID) == "" {
		return services.Wrap(services.ErrValidation, "transcript", "register", "empty source id", nil)
	}
	if _, ok := r.byID[tr.SourceID]; ok {
		return services.Wrap(services.ErrValidation, "transcript", "register",
			fmt.Sprintf("duplicate source id %q", tr.SourceID), nil)
	}
	r.order = append(r.order, tr.SourceID)
	r.byID[tr.SourceID] = tr
	return nil
}

// Get returns the transcript for a source ID.
func (r *Registry) Get(sourceID string) (Transcript, bool) {
	tr, ok := r.byID[sourceID]
	return tr, ok
}

// All returns transcripts in registration order.
func (r *Registry) All() []Transcript {
	out := make([]Transcript, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered transcripts.
func (r *Registry) Len() int {
	return len(r.order)
}

// LoadDir builds a registry from a transcript directory: every subdirectory
// whose name matches a video file stem in videoDir is loaded. Takes with a
// malformed artifact are logged and skipped so one bad take does not sink
// the run. Extensions decide which video files count as takes.
func LoadDir(transcriptDir, videoDir string, extensions []string, logger *slog.Logger) (*Registry, error) {
	log := logging.NewComponentLogger(logger, "transcript")

	entries, err := os.ReadDir(transcriptDir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "transcript", "scan", transcriptDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	registry := NewRegistry()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		stem := entry.Name()
		videoName, ok := findVideo(videoDir, stem, extensions)
		if !ok {
			log.Warn("no video for transcript", logging.Args(logging.String("stem", stem))...)
			continue
		}
		text, err := LoadText(filepath.Join(transcriptDir, stem))
		if err != nil {
			log.Warn("skipping unreadable transcript",
				logging.Args(logging.String("take", videoName), logging.Error(err))...)
			continue
		}
		if text == "" {
			log.Warn("empty transcript", logging.Args(logging.String("take", videoName))...)
			continue
		}
		if err := registry.Add(Transcript{SourceID: videoName, Text: text}); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func findVideo(videoDir, stem string, extensions []string) (string, bool) {
	for _, ext := range extensions {
		name := stem + ext
		if _, err := os.Stat(filepath.Join(videoDir, name)); err == nil {
			return name, true
		}
		upper := stem + strings.ToUpper(ext)
		if _, err := os.Stat(filepath.Join(videoDir, upper)); err == nil {
			return upper, true
		}
	}
	return "", false
}
