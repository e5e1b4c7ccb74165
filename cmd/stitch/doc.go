// Package main hosts the stitch CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the full pipeline: registering and
// transcribing takes, matching a script against the transcript corpus,
// interactive take selection, splicing the final video, ordered take copies,
// background music mixing, report inspection, and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
