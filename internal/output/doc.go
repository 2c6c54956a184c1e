// Package output formats analysis reports for display or machine consumption.
//
// Five formats are supported:
//   - text     human-readable terminal output (default)
//   - json     the full exportable report
//   - markdown PR-comment-friendly with collapsible sections per severity
//   - sarif    SARIF v2.1.0 for upload to code scanning tools
//   - summary  the three-line share text
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*review.Report]. [WriteReport]
// handles destination selection.
package output
