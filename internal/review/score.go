package review

// Score constants. Fixed scores apply to runs that never reach the rules.
const (
	BaseScore        = 90
	InvalidURLScore  = 60
	UpstreamErrScore = 50
	NothingToAnalyze = BaseScore
	maxScore         = 100
	minScore         = 0
)

// Deduction returns the points a finding of severity s costs.
func Deduction(s Severity) int {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 8
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

// Score starts from BaseScore, subtracts each finding's deduction and
// clamps the result to [0, 100].
func Score(findings []Finding) int {
	score := BaseScore
	for _, f := range findings {
		score -= Deduction(f.Severity)
	}
	return clamp(score)
}

func clamp(score int) int {
	return max(minScore, min(maxScore, score))
}
