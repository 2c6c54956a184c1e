package output

import (
	"io"
	"strings"

	"github.com/dshills/coral/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	counts := report.Summary.Counts
	total := counts.Total()

	ew.printf("## Coral Code Review\n\n")
	ew.printf("**Score:** %d/100 %s | **Repository:** %s\n\n",
		report.Score, mdBandIcon(report.Summary.Band), report.RepositoryURL)

	ew.printf("| Severity | Count |\n")
	ew.printf("|----------|-------|\n")
	ew.printf("| Critical | %d    |\n", counts.Critical)
	ew.printf("| High     | %d    |\n", counts.High)
	ew.printf("| Medium   | %d    |\n", counts.Medium)
	ew.printf("| Low      | %d    |\n", counts.Low)
	ew.printf("| **Total** | **%d** |\n\n", total)

	if total == 0 {
		ew.println("No issues found. :white_check_mark:")
		return ew.err
	}

	grouped := groupBySeverity(report.Findings)
	for _, sev := range review.Severities {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		ew.printf("<details>\n<summary>%s %s (%d)</summary>\n\n",
			mdSeverityIcon(sev), strings.ToUpper(string(sev)), len(findings))

		for _, f := range findings {
			ew.printf("### %s\n\n", f.Title)
			if loc := location(f); loc != "" {
				ew.printf("**`%s`** | ", loc)
			}
			ew.printf("%s | %s\n\n", f.Category, f.Agent)
			ew.printf("%s\n\n", f.Description)

			if f.Suggestion != "" {
				ew.printf("**Suggestion:**\n\n")
				ew.printf("> %s\n\n", strings.ReplaceAll(f.Suggestion, "\n", "\n> "))
			}

			ew.printf("---\n\n")
		}

		ew.printf("</details>\n\n")
	}

	ew.printf("#### By category\n\n")
	ew.printf("| Category | Count | Findings |\n")
	ew.printf("|----------|-------|----------|\n")
	for _, c := range review.Categories {
		findings := review.ByCategory(report.Findings, c)
		titles := make([]string, len(findings))
		for i, f := range findings {
			titles[i] = f.Title
		}
		ew.printf("| %s | %d | %s |\n", c, len(findings), strings.Join(titles, "; "))
	}
	ew.println("")

	ew.printf("*Analyzed in %dms (GitHub: %dms)*\n", report.Timing.TotalMs, report.Timing.FetchMs)

	return ew.err
}

func mdSeverityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return ":no_entry:"
	case review.SeverityHigh:
		return ":red_circle:"
	case review.SeverityMedium:
		return ":orange_circle:"
	case review.SeverityLow:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

func mdBandIcon(b review.ScoreBand) string {
	switch b {
	case review.BandGood:
		return ":green_circle:"
	case review.BandFair:
		return ":yellow_circle:"
	default:
		return ":red_circle:"
	}
}
