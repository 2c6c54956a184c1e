// Package cli wires together the Cobra command tree for the coral binary.
//
// It defines the root command and all subcommands (review, serve, config,
// version), binds flags, reads configuration, invokes the analysis engine,
// and returns deterministic exit codes for CI gating.
package cli
