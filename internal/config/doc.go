// Package config loads and validates the flat-key YAML configuration
// that selects a passivation Strategy and its tuning knobs, and builds
// a wired passivation.Manager from it.
package config
