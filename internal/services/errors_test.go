package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stitch/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "assemble", "extract", "segment failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"assemble", "extract", "segment failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToExternalTool(t *testing.T) {
	err := services.Wrap(nil, "probe", "duration", "no output", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"not found", services.Wrap(services.ErrNotFound, "match", "load", "missing transcript", nil), true},
		{"low confidence", services.ErrLowConfidence, true},
		{"malformed", services.Wrap(services.ErrMalformed, "report", "parse", "bad block", nil), true},
		{"external tool", services.Wrap(services.ErrExternalTool, "assemble", "extract", "exit 1", nil), true},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "bad path", nil), false},
		{"plain error", errors.New("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Recoverable(tt.err); got != tt.want {
				t.Errorf("Recoverable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRunCommandMissingBinary(t *testing.T) {
	err := services.RunCommand(context.Background(), "stitch-nonexistent-binary-for-test")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}
