// Package config loads and merges coral configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CORAL_FORMAT, CORAL_FAIL_UNDER, CORAL_GITHUB_TOKEN,
//     GITHUB_TOKEN, etc.)
//  3. Config file ($XDG_CONFIG_HOME/coral/config.yaml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file, and
// [SetField] to update a single key.
package config
