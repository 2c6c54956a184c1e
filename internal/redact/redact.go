package redact

import (
	"net/url"
	"regexp"
)

const (
	placeholder = "[REDACTED]"
	// urlPlaceholder survives URL escaping unchanged.
	urlPlaceholder = "REDACTED"
)

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long hex/base64 strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// AWS secret access keys
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`),
	// GitHub classic and fine-grained tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// sk- prefixed provider keys
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),
	// Database connection strings with inline passwords
	regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb(\+srv)?|redis)://[^:\s/]+:[^@\s]+@`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// Token masks a configured credential for display, keeping at most a
// four-character prefix so the token type stays recognizable.
func Token(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 8:
		return placeholder
	default:
		return token[:4] + placeholder
	}
}

var sensitiveParam = regexp.MustCompile(`(?i)token|secret|key|password|sig`)

// URL masks userinfo and secret-looking query values in raw. Input that
// does not parse as an absolute URL is passed through Secrets.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Secrets(raw)
	}
	if u.User != nil {
		u.User = url.User(urlPlaceholder)
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if sensitiveParam.MatchString(k) {
				q.Set(k, urlPlaceholder)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
