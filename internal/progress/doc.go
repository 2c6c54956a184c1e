// Package progress turns analysis state transitions into per-agent status
// and an overall percentage, optionally rendered as a terminal progress bar.
package progress
