// Package review contains the core types, rules and engine for analyzing a
// GitHub repository or pull request.
//
// An Engine resolves a URL into a target, fetches the GitHub data the target
// needs (two calls at a time through an errgroup), runs the ordered rule set
// over it and scores the resulting findings. Every failure is folded into a
// Result: an unusable URL yields a single medium finding scored 60, a GitHub
// error a single high finding scored 50.
//
// Rules (rules.go) are plain ordered slices of checks built from Thresholds,
// so callers can swap limits or whole rule sets without touching the engine.
// Scoring (score.go) starts from a base of 90 and deducts per severity,
// clamped to [0, 100].
package review
