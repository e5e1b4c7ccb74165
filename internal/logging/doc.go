// Package logging builds slog loggers for the stitch CLI.
//
// Two formats are supported: a compact human-readable console format and
// structured JSON. Console output pulls the component attribute into a
// bracketed prefix so pipeline steps stay scannable. Loggers optionally tee
// into a log file under the configured log directory.
package logging
