// Package config loads and merges gitmsg configuration from multiple sources.
//
// Precedence (highest to lowest):
//
//  1. CLI flag overrides
//  2. Environment variables (GITMSG_PROVIDER, GITMSG_MODEL, ...)
//  3. Repository file (.gitmsg.toml in the repo root)
//  4. User file ($XDG_CONFIG_HOME/gitmsg/config.json)
//  5. Built-in defaults
//
// The result is a single flattened [Config] value handed to the collector and
// prompt builder; nothing downstream re-resolves the layering. Lower bounds
// on the byte, file-count, and timeout budgets are clamped here so the core
// never has to defend against them.
package config
