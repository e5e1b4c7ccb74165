package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external tool and blocks until it exits. A nil
// error means the tool exited zero; any other outcome is a total failure of
// that single step with the tool's diagnostic output attached.
//
// The pipeline injects fake runners in tests so media invocations stay
// observable without requiring ffmpeg on the host.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// RunCommand is the default CommandRunner backed by exec.CommandContext.
// Combined stdout/stderr is attached to the returned error on failure.
func RunCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return fmt.Errorf("%w: %s: %w", ErrExternalTool, name, err)
		}
		return fmt.Errorf("%w: %s: %w: %s", ErrExternalTool, name, err, detail)
	}
	return nil
}

// CaptureCommand runs an external tool and returns its stdout. Stderr is
// attached to the error on failure.
func CaptureCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("%w: %s: %w", ErrExternalTool, name, err)
		}
		return "", fmt.Errorf("%w: %s: %w: %s", ErrExternalTool, name, err, detail)
	}
	return string(out), nil
}
