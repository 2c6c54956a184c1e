package target

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Host is the only hostname Parse accepts.
const Host = "github.com"

// AnalysisType selects which rule set an analysis run applies.
type AnalysisType string

const (
	TypeAuto        AnalysisType = "auto"
	TypeRepository  AnalysisType = "repository"
	TypePullRequest AnalysisType = "pull-request"
)

// ParseType normalizes a user-supplied analysis type. The empty string is
// treated as auto; "repo" and "pr" are accepted as short forms.
func ParseType(s string) (AnalysisType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return TypeAuto, nil
	case "repository", "repo":
		return TypeRepository, nil
	case "pull-request", "pull_request", "pullrequest", "pr":
		return TypePullRequest, nil
	default:
		return "", fmt.Errorf("unknown analysis type %q (want auto, repository or pull-request)", s)
	}
}

// DetectType picks the analysis type for a raw URL: anything containing
// "/pull/" is a pull request, everything else a repository.
func DetectType(raw string) AnalysisType {
	if strings.Contains(raw, "/pull/") {
		return TypePullRequest
	}
	return TypeRepository
}

// Resolve replaces TypeAuto with the type detected from raw.
func (t AnalysisType) Resolve(raw string) AnalysisType {
	if t == TypeAuto || t == "" {
		return DetectType(raw)
	}
	return t
}

// Target identifies the repository, and optionally the pull request, to analyze.
type Target struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	PRNumber int    `json:"prNumber,omitempty"`
	HasPR    bool   `json:"-"`
}

// FullName returns "owner/repo".
func (t Target) FullName() string {
	return t.Owner + "/" + t.Repo
}

func (t Target) String() string {
	if t.HasPR {
		return fmt.Sprintf("%s#%d", t.FullName(), t.PRNumber)
	}
	return t.FullName()
}

// Parse extracts a Target from a github.com URL. It reports false when raw
// is not an absolute URL, points at another host, lacks an owner/repo pair,
// or names a pull request whose number is not an integer. Any other path
// below /owner/repo is treated as the plain repository.
func Parse(raw string) (Target, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Target{}, false
	}
	if u.Hostname() != Host {
		return Target{}, false
	}

	var parts []string
	for _, p := range strings.Split(u.EscapedPath(), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return Target{}, false
	}

	t := Target{Owner: parts[0], Repo: parts[1]}
	if len(parts) >= 4 && parts[2] == "pull" {
		n, ok := leadingInt(parts[3])
		if !ok {
			return Target{}, false
		}
		t.PRNumber = n
		t.HasPR = true
	}
	return t, true
}

// leadingInt reads an optionally signed run of decimal digits from the
// start of s and ignores whatever follows, so "12#files" yields 12.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

var (
	// ErrEmptyURL is returned by Validate for blank input.
	ErrEmptyURL = errors.New("URL required: enter a GitHub repository or PR URL")
	// ErrInvalidURL is returned by Validate for input that does not look
	// like https://github.com/owner/repo.
	ErrInvalidURL = errors.New("invalid URL: enter a valid GitHub URL")
)

var formPattern = regexp.MustCompile(`^https://github\.com/[\w-]+/[\w.-]+`)

// Validate performs the quick shape check applied before a run is started.
// It is stricter than Parse (https only, restricted owner characters) and
// exists to give early feedback; the engine still accepts anything.
func Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyURL
	}
	if !formPattern.MatchString(raw) {
		return ErrInvalidURL
	}
	return nil
}
