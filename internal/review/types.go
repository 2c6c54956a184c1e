package review

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/coral/internal/target"
)

// Severity represents the severity level of a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the defined severities.
func (s Severity) Valid() bool {
	return SeverityRank(s) > 0
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !Severity(v).Valid() {
		return fmt.Errorf("invalid severity %q", v)
	}
	*s = Severity(v)
	return nil
}

// Category represents the type of finding.
type Category string

const (
	CategorySecurity     Category = "security"
	CategoryQuality      Category = "quality"
	CategoryTesting      Category = "testing"
	CategoryArchitecture Category = "architecture"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySecurity, CategoryQuality, CategoryTesting, CategoryArchitecture}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySecurity, CategoryQuality, CategoryTesting, CategoryArchitecture:
		return true
	}
	return false
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !Category(v).Valid() {
		return fmt.Errorf("invalid category %q", v)
	}
	*c = Category(v)
	return nil
}

// Agent labels. They attribute findings and drive progress display; no
// agent runs independently.
const (
	AgentInterface         = "Interface Agent"
	AgentGitHub            = "GitHub MCP Agent"
	AgentRepoUnderstanding = "Repo Understanding Agent"
	AgentCodeReview        = "Code Review Agent"
	AgentTestRunner        = "Unit Test Runner Agent"
)

// Finding represents a single code review finding.
type Finding struct {
	Agent       string   `json:"agent"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// Result is the outcome of one analysis run.
type Result struct {
	Findings []Finding `json:"results"`
	Score    int       `json:"overallScore"`
}

// ScoreBand buckets a score the way the results view colours it.
type ScoreBand string

const (
	BandGood ScoreBand = "good"
	BandFair ScoreBand = "fair"
	BandPoor ScoreBand = "poor"
)

// BandFor returns the band for score.
func BandFor(score int) ScoreBand {
	switch {
	case score >= 90:
		return BandGood
	case score >= 70:
		return BandFair
	default:
		return BandPoor
	}
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the number of counted findings.
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// CategoryCounts holds counts by category.
type CategoryCounts struct {
	Security     int `json:"security"`
	Quality      int `json:"quality"`
	Testing      int `json:"testing"`
	Architecture int `json:"architecture"`
}

// Summary provides an overview of findings.
type Summary struct {
	Counts          SeverityCounts `json:"counts"`
	Categories      CategoryCounts `json:"categories"`
	HighestSeverity Severity       `json:"highestSeverity,omitempty"`
	Band            ScoreBand      `json:"band"`
}

// Timing contains performance metrics.
type Timing struct {
	FetchMs int64 `json:"fetchMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the exportable form of a run: the result plus what was asked for.
type Report struct {
	Tool          string              `json:"tool"`
	Version       string              `json:"version"`
	RunID         string              `json:"runId"`
	RepositoryURL string              `json:"repositoryUrl"`
	AnalysisType  target.AnalysisType `json:"analysisType"`
	Target        *target.Target      `json:"target,omitempty"`
	Result
	Summary Summary       `json:"summary"`
	Agents  []AgentStatus `json:"agents,omitempty"`
	Timing  Timing        `json:"timing"`
}

// AgentStatus is the final state of one display agent.
type AgentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ComputeSummary calculates the summary from findings and score.
func ComputeSummary(findings []Finding, score int) Summary {
	s := Summary{Band: BandFor(score)}
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			s.Counts.Critical++
		case SeverityHigh:
			s.Counts.High++
		case SeverityMedium:
			s.Counts.Medium++
		case SeverityLow:
			s.Counts.Low++
		}
		switch f.Category {
		case CategorySecurity:
			s.Categories.Security++
		case CategoryQuality:
			s.Categories.Quality++
		case CategoryTesting:
			s.Categories.Testing++
		case CategoryArchitecture:
			s.Categories.Architecture++
		}
		if SeverityRank(f.Severity) > SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = f.Severity
		}
	}
	return s
}

// ByCategory returns the findings of category c, preserving order.
func ByCategory(findings []Finding, c Category) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}
