package output

import (
	"fmt"
	"io"

	"github.com/dshills/coral/internal/review"
)

// ShareSummary returns the short text shared from a results view.
func ShareSummary(report *review.Report) string {
	return fmt.Sprintf("Code Review Score: %d%%\nRepo: %s\nIssues: %d",
		report.Score, report.RepositoryURL, len(report.Findings))
}

// SummaryWriter outputs the share summary.
type SummaryWriter struct{}

func (s *SummaryWriter) Write(w io.Writer, report *review.Report) error {
	_, err := fmt.Fprintln(w, ShareSummary(report))
	return err
}
