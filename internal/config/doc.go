// Package config loads and validates the application configuration: HTTP
// server settings, logging, the experiment data directory layout, and the
// static school→target-EC table that every dataset join depends on.
package config
