package output

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/coral/internal/review"
)

// SARIFWriter outputs findings in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *review.Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool       `json:"tool"`
	Results    []sarifResult   `json:"results"`
	Properties sarifRunSummary `json:"properties"`
}

type sarifRunSummary struct {
	RepositoryURL string           `json:"repositoryUrl"`
	AnalysisType  string           `json:"analysisType"`
	OverallScore  int              `json:"overallScore"`
	Band          review.ScoreBand `json:"band"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID     string                `json:"ruleId"`
	Level      string                `json:"level"`
	Message    sarifMessage          `json:"message"`
	Locations  []sarifLocation       `json:"locations,omitempty"`
	Fixes      []sarifFix            `json:"fixes,omitempty"`
	Properties sarifResultProperties `json:"properties"`
}

type sarifResultProperties struct {
	Agent    string          `json:"agent"`
	Severity review.Severity `json:"severity"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

func buildSARIF(report *review.Report) sarifLog {
	var rules []sarifRule
	seen := make(map[string]bool)
	results := []sarifResult{}

	for _, f := range report.Findings {
		ruleID := generateRuleID(f)

		// Rules are listed in first-seen order.
		if !seen[ruleID] {
			seen[ruleID] = true
			rules = append(rules, sarifRule{
				ID:               ruleID,
				Name:             string(f.Category),
				ShortDescription: sarifMessage{Text: f.Title},
				DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(f.Severity)},
				Properties:       sarifRuleProperties{Tags: []string{string(f.Category)}},
			})
		}

		result := sarifResult{
			RuleID:     ruleID,
			Level:      severityToLevel(f.Severity),
			Message:    sarifMessage{Text: f.Description},
			Properties: sarifResultProperties{Agent: f.Agent, Severity: f.Severity},
		}

		if f.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.File},
				},
			}
			if f.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: f.Line}
			}
			result.Locations = append(result.Locations, loc)
		}

		if f.Suggestion != "" {
			result.Fixes = append(result.Fixes, sarifFix{
				Description: sarifMessage{Text: f.Suggestion},
			})
		}

		results = append(results, result)
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "coral",
						Version:        report.Version,
						InformationURI: "https://github.com/dshills/coral",
						Rules:          rules,
					},
				},
				Results: results,
				Properties: sarifRunSummary{
					RepositoryURL: report.RepositoryURL,
					AnalysisType:  string(report.AnalysisType),
					OverallScore:  report.Score,
					Band:          report.Summary.Band,
				},
			},
		},
	}
}

// severityToLevel maps a finding severity to a SARIF level.
func severityToLevel(s review.Severity) string {
	switch s {
	case review.SeverityCritical, review.SeverityHigh:
		return "error"
	case review.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// generateRuleID creates a stable rule ID from category + title.
func generateRuleID(f review.Finding) string {
	data := fmt.Sprintf("%s/%s", f.Category, f.Title)
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("coral/%s/%x", f.Category, h[:4])
}
