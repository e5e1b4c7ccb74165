package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classifying pipeline failures. Wrap tags errors with one
// of these so callers can decide whether a failure is fatal for a single
// line/take or for the whole run.
var (
	// ErrNotFound marks a missing source video, transcript, or script file.
	ErrNotFound = errors.New("not found")
	// ErrLowConfidence marks a script line no candidate cleared the minimum
	// score for. Surfaced as an unmatched line, not a pipeline failure.
	ErrLowConfidence = errors.New("low confidence")
	// ErrExternalTool marks a non-zero exit from a media subprocess.
	ErrExternalTool = errors.New("external tool error")
	// ErrMalformed marks an artifact that exists but cannot be parsed.
	ErrMalformed = errors.New("malformed artifact")
	// ErrValidation marks input that fails structural checks.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes step context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the pipeline may continue past err by skipping
// the affected line or take. Concatenation failures and configuration errors
// are not recoverable; a single missing or malformed artifact is.
func Recoverable(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLowConfidence), errors.Is(err, ErrMalformed):
		return true
	case errors.Is(err, ErrExternalTool):
		return true
	default:
		return false
	}
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
