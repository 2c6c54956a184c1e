// Coral analyzes GitHub repositories and pull requests with heuristic
// review rules and reports a 0-100 score with findings.
//
// It fetches repository metadata, languages and README presence, or a pull
// request and its changed files, then emits structured findings with
// deterministic exit codes suitable for CI gating.
//
// Usage:
//
//	coral review https://github.com/owner/repo          # review a repository
//	coral review https://github.com/owner/repo/pull/42  # review a pull request
//	coral review --remote --pr 42                       # review a PR of the origin remote
//	coral review                                        # prompt for a URL
//	coral serve --addr :8080                            # serve the HTTP API
//
// See https://github.com/dshills/coral for full documentation.
package main
