package output

import (
	"io"
	"sort"
	"strings"

	"github.com/dshills/coral/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	counts := report.Summary.Counts
	total := counts.Total()

	ew.printf("Coral Code Review (%s)\n", report.AnalysisType)
	ew.printf("Repository: %s\n", report.RepositoryURL)
	if report.Target != nil {
		ew.printf("Target: %s\n", report.Target)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Score: %d/100 (%s)\n", report.Score, report.Summary.Band)
	ew.printf("Findings: %d total", total)
	if total > 0 {
		ew.printf(" (%d critical, %d high, %d medium, %d low)",
			counts.Critical, counts.High, counts.Medium, counts.Low)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo issues found. Looks good!")
	}

	grouped := groupBySeverity(report.Findings)
	for _, sev := range review.Severities {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))

		sort.SliceStable(findings, func(i, j int) bool {
			return findings[i].File < findings[j].File
		})

		for _, f := range findings {
			if loc := location(f); loc != "" {
				ew.printf("\n  %s  %s\n", loc, f.Title)
			} else {
				ew.printf("\n  %s\n", f.Title)
			}
			ew.printf("  Category: %s | Agent: %s\n", f.Category, f.Agent)

			for _, line := range wrapText(f.Description, 70) {
				ew.printf("    %s\n", line)
			}

			if f.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(f.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	if total > 0 {
		ew.println("\nBy category:")
		for _, c := range review.Categories {
			findings := review.ByCategory(report.Findings, c)
			ew.printf("  %-14s %d\n", c, len(findings))
			for _, f := range findings {
				ew.printf("    - %s\n", f.Title)
			}
		}
	}

	if len(report.Agents) > 0 {
		ew.println("\nAgents:")
		for _, a := range report.Agents {
			ew.printf("  %-28s %s\n", a.Name, a.Status)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (GitHub: %dms)\n", report.Timing.TotalMs, report.Timing.FetchMs)

	return ew.err
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!!]"
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
