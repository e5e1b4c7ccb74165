// Package services defines shared utilities consumed by the pipeline steps
// and external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     as recoverable (skip the line/take) or fatal for the run.
//   - The CommandRunner abstraction that makes blocking media subprocess
//     invocations testable.
//
// Use these helpers when wiring new pipeline logic so error handling stays
// uniform across steps.
package services
