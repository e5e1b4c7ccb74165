// Package config loads, normalizes, and validates stitch configuration.
//
// Configuration comes from a TOML file resolved in order: an explicit
// --config path, ~/.config/stitch/config.toml, then ./stitch.toml. Missing
// files fall back to defaults so the CLI works out of the box. Paths are
// tilde-expanded and made absolute during normalization.
package config
