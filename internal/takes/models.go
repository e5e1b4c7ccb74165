package takes

import (
	"strings"
	"time"
)

// Status represents the transcription lifecycle of a take.
type Status string

const (
	StatusPending      Status = "pending"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusTranscribing,
	StatusTranscribed,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus normalizes a raw string into a Status.
func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := statusSet[status]
	return status, ok
}

// Take is one source video tracked by the registry. SourceID is the video's
// base file name and is unique within a registry.
type Take struct {
	ID              int64
	SourceID        string
	SourcePath      string
	Status          Status
	DurationSeconds float64
	Transcript      string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Transcribed reports whether the take has a usable transcript.
func (t *Take) Transcribed() bool {
	return t != nil && t.Status == StatusTranscribed && strings.TrimSpace(t.Transcript) != ""
}
