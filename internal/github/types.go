package github

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// License is the license summary attached to a repository.
type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
}

// Repository holds the subset of /repos/{owner}/{repo} the rules read.
type Repository struct {
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	DefaultBranch   string   `json:"default_branch"`
	License         *License `json:"license"`
	OpenIssuesCount int      `json:"open_issues_count"`
	StargazersCount int      `json:"stargazers_count"`
	Archived        bool     `json:"archived"`
}

// Language is one entry of the language breakdown.
type Language struct {
	Name  string
	Bytes int64
}

// Languages is the language breakdown in document order. GitHub lists the
// dominant language first, so decoding into a map would lose information.
type Languages []Language

// Names returns the language names in order.
func (l Languages) Names() []string {
	names := make([]string, len(l))
	for i, lang := range l {
		names[i] = lang.Name
	}
	return names
}

// UnmarshalJSON decodes a JSON object of name -> byte count, preserving key order.
func (l *Languages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("languages: expected object, got %v", tok)
	}

	var out Languages
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("languages: unexpected key %v", keyTok)
		}
		var n int64
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("languages: value for %q: %w", name, err)
		}
		out = append(out, Language{Name: name, Bytes: n})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// PullRequest holds the subset of /repos/{owner}/{repo}/pulls/{n} the rules read.
type PullRequest struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	State        string `json:"state"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	ChangedFiles int    `json:"changed_files"`
}

// PRFile is a file changed in a pull request.
type PRFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}
