package review

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/coral/internal/github"
	"github.com/sourcegraph/go-diff/diff"
)

// Thresholds are the heuristic limits the rules compare against.
type Thresholds struct {
	LargePR         int // additions+deletions above this flag the PR
	LargeFile       int // per-file changes above this flag the file
	OpenIssues      int // open issues above this flag the repository
	MinBearerLength int // characters required after "bearer" to count as a token
}

// DefaultThresholds returns the built-in limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LargePR:         800,
		LargeFile:       400,
		OpenIssues:      100,
		MinBearerLength: 20,
	}
}

// Validate reports thresholds that cannot be used.
func (t Thresholds) Validate() error {
	var errs []error
	if t.LargePR < 0 {
		errs = append(errs, fmt.Errorf("largePr must be >= 0, got %d", t.LargePR))
	}
	if t.LargeFile < 0 {
		errs = append(errs, fmt.Errorf("largeFile must be >= 0, got %d", t.LargeFile))
	}
	if t.OpenIssues < 0 {
		errs = append(errs, fmt.Errorf("openIssues must be >= 0, got %d", t.OpenIssues))
	}
	// RE2 caps counted repetition at 1000.
	if t.MinBearerLength < 1 || t.MinBearerLength > 1000 {
		errs = append(errs, fmt.Errorf("minBearerLength must be in [1,1000], got %d", t.MinBearerLength))
	}
	return errors.Join(errs...)
}

// RepoContext is the fetched data the repository rules inspect.
type RepoContext struct {
	Info      github.Repository
	Languages github.Languages
	ReadmeErr error
}

// PullContext is the fetched data the pull-request rules inspect.
type PullContext struct {
	Info  github.PullRequest
	Files []github.PRFile
}

// RepoRule checks repository-level data.
type RepoRule struct {
	ID    string
	Check func(RepoContext) []Finding
}

// PullRule checks the pull request as a whole.
type PullRule struct {
	ID    string
	Check func(PullContext) []Finding
}

// FileRule checks one changed file.
type FileRule struct {
	ID    string
	Check func(github.PRFile) []Finding
}

// RuleSet is the ordered collection of checks applied by the engine.
type RuleSet struct {
	Repo []RepoRule
	Pull []PullRule
	File []FileRule
}

// EvaluateRepo runs the repository rules in order.
func (rs RuleSet) EvaluateRepo(ctx RepoContext) []Finding {
	var findings []Finding
	for _, r := range rs.Repo {
		findings = append(findings, r.Check(ctx)...)
	}
	return findings
}

// EvaluatePull runs the pull-request rules, then every file rule for each
// file in order before moving to the next file.
func (rs RuleSet) EvaluatePull(ctx PullContext) []Finding {
	var findings []Finding
	for _, r := range rs.Pull {
		findings = append(findings, r.Check(ctx)...)
	}
	for _, f := range ctx.Files {
		for _, r := range rs.File {
			findings = append(findings, r.Check(f)...)
		}
	}
	return findings
}

var (
	testFileRe   = regexp.MustCompile(`(?i)test|spec`)
	sourceFileRe = regexp.MustCompile(`(?i)\.(ts|tsx|js|jsx|py|go|rb|java)$`)
)

// SecretPattern returns the credential heuristic applied to patches.
func SecretPattern(minBearer int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)(api[_-]?key|secret|password|bearer\s+[A-Za-z0-9._-]{%d,})`, minBearer))
}

// DefaultRules builds the standard rule set for th. th must be valid.
func DefaultRules(th Thresholds) RuleSet {
	secretRe := SecretPattern(th.MinBearerLength)

	return RuleSet{
		Repo: []RepoRule{
			{ID: "repo/license", Check: func(ctx RepoContext) []Finding {
				if ctx.Info.License != nil {
					return nil
				}
				return []Finding{{
					Agent:       AgentGitHub,
					Category:    CategoryQuality,
					Severity:    SeverityMedium,
					Title:       "No license detected",
					Description: "This repository does not specify a license.",
					Suggestion:  "Add an open-source license (e.g., MIT, Apache-2.0) to clarify usage rights.",
				}}
			}},
			{ID: "repo/readme", Check: func(ctx RepoContext) []Finding {
				if ctx.ReadmeErr == nil {
					return nil
				}
				return []Finding{{
					Agent:       AgentRepoUnderstanding,
					Category:    CategoryQuality,
					Severity:    SeverityMedium,
					Title:       "Missing README.md",
					Description: "A README file was not found.",
					Suggestion:  "Add a README with setup, usage, and contributing guidelines.",
				}}
			}},
			{ID: "repo/languages", Check: func(ctx RepoContext) []Finding {
				names := ctx.Languages.Names()
				if len(names) == 0 {
					return nil
				}
				if len(names) > 3 {
					names = names[:3]
				}
				return []Finding{{
					Agent:       AgentRepoUnderstanding,
					Category:    CategoryArchitecture,
					Severity:    SeverityLow,
					Title:       "Technology stack detected",
					Description: "Top languages: " + strings.Join(names, ", "),
				}}
			}},
			{ID: "repo/open-issues", Check: func(ctx RepoContext) []Finding {
				n := ctx.Info.OpenIssuesCount
				if n <= th.OpenIssues {
					return nil
				}
				return []Finding{{
					Agent:       AgentGitHub,
					Category:    CategoryQuality,
					Severity:    SeverityLow,
					Title:       "High number of open issues",
					Description: fmt.Sprintf("There are %d open issues. Consider triaging.", n),
				}}
			}},
		},
		Pull: []PullRule{
			{ID: "pr/size", Check: func(ctx PullContext) []Finding {
				changed := ctx.Info.Additions + ctx.Info.Deletions
				if changed <= th.LargePR {
					return nil
				}
				return []Finding{{
					Agent:       AgentCodeReview,
					Category:    CategoryQuality,
					Severity:    SeverityHigh,
					Title:       "Very large PR",
					Description: fmt.Sprintf("This PR changes %d lines. Consider splitting into smaller PRs.", changed),
				}}
			}},
			{ID: "pr/tests", Check: func(ctx PullContext) []Finding {
				var tests, sources int
				for _, f := range ctx.Files {
					if testFileRe.MatchString(f.Filename) {
						tests++
					}
					if sourceFileRe.MatchString(f.Filename) {
						sources++
					}
				}
				if sources == 0 || tests > 0 {
					return nil
				}
				return []Finding{{
					Agent:       AgentTestRunner,
					Category:    CategoryTesting,
					Severity:    SeverityMedium,
					Title:       "No tests modified",
					Description: "Source files changed but no tests were added or updated.",
					Suggestion:  "Add or update tests to cover changed logic.",
				}}
			}},
		},
		File: []FileRule{
			{ID: "file/secret", Check: func(f github.PRFile) []Finding {
				if f.Patch == "" || !secretRe.MatchString(f.Patch) {
					return nil
				}
				return []Finding{{
					Agent:       AgentCodeReview,
					Category:    CategorySecurity,
					Severity:    SeverityCritical,
					Title:       "Potential secret in diff",
					Description: "Potential credential-like pattern detected in " + f.Filename,
					File:        f.Filename,
					Line:        addedLineMatching(f.Patch, secretRe),
					Suggestion:  "Remove secrets from code and rotate credentials immediately.",
				}}
			}},
			{ID: "file/size", Check: func(f github.PRFile) []Finding {
				if f.Changes <= th.LargeFile {
					return nil
				}
				return []Finding{{
					Agent:       AgentCodeReview,
					Category:    CategoryQuality,
					Severity:    SeverityMedium,
					Title:       "Large file change",
					Description: fmt.Sprintf("%s has %d changed lines. Consider splitting changes.", f.Filename, f.Changes),
					File:        f.Filename,
				}}
			}},
		},
	}
}

// addedLineMatching returns the new-file line number of the first added
// line in patch that matches re, or 0 when the patch has no parseable hunks
// or the match is not on an added line.
func addedLineMatching(patch string, re *regexp.Regexp) int {
	hunks, err := diff.ParseHunks([]byte(patch))
	if err != nil {
		return 0
	}
	for _, h := range hunks {
		line := int(h.NewStartLine)
		for _, l := range strings.Split(strings.TrimSuffix(string(h.Body), "\n"), "\n") {
			if l == "" {
				line++
				continue
			}
			switch l[0] {
			case '+':
				if re.MatchString(l[1:]) {
					return line
				}
				line++
			case '-', '\\':
			default:
				line++
			}
		}
	}
	return 0
}
