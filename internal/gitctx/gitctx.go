package gitctx

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root      string
	Branch    string
	RemoteURL string
}

// GetRepoMeta collects repository metadata from git. A repository without
// an origin remote or without commits yields empty fields, not an error.
func GetRepoMeta() (RepoMeta, error) {
	root, err := gitOutput("rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	branch, err := gitOutput("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	remote, err := gitOutput("remote", "get-url", "origin")
	if err != nil {
		remote = ""
	}
	return RepoMeta{
		Root:      strings.TrimSpace(root),
		Branch:    strings.TrimSpace(branch),
		RemoteURL: strings.TrimSpace(remote),
	}, nil
}

// DetectRepo parses owner/repo from the origin remote of the current
// directory.
func DetectRepo() (owner, repo string, err error) {
	meta, err := GetRepoMeta()
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: %w", err)
	}
	if meta.RemoteURL == "" {
		return "", "", fmt.Errorf("cannot detect repo: no origin remote in %s", meta.Root)
	}
	return ParseRemoteURL(meta.RemoteURL)
}

var (
	httpsRemoteRe = regexp.MustCompile(`^(?:https?|ssh|git)://(?:[^@/]+@)?[^/]+/([^/]+)/([^/\s]+)$`)
	scpRemoteRe   = regexp.MustCompile(`^[^@/]+@[^:]+:([^/]+)/([^/\s]+)$`)
)

// ParseRemoteURL extracts owner/repo from a git remote URL in https, ssh
// or scp-like form.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(url), "/"), ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); m != nil {
		return m[1], m[2], nil
	}
	if m := scpRemoteRe.FindStringSubmatch(url); m != nil {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
