package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIURL    = "https://api.github.com"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "coral"
)

// Options configures a Client.
type Options struct {
	Token     string
	APIURL    string
	Timeout   time.Duration
	UserAgent string
}

// Client provides read access to the GitHub REST API.
type Client struct {
	token     string
	apiURL    string
	userAgent string
	httpCli   *http.Client
}

// NewClient creates a client. An empty token means unauthenticated requests.
func NewClient(opts Options) *Client {
	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		token:     opts.Token,
		apiURL:    strings.TrimRight(apiURL, "/"),
		userAgent: ua,
		httpCli:   &http.Client{Timeout: timeout},
	}
}

// HTTPError reports a non-2xx response from the API.
type HTTPError struct {
	Status int
	Path   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GitHub API error %d", e.Status)
}

// FetchJSON issues a GET for path and decodes the JSON body into v.
// A nil v discards the body after the status check.
func (c *Client) FetchJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &HTTPError{Status: resp.StatusCode, Path: path}
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", path, err)
	}
	return nil
}

// repoPath returns the API path of a repository with each name escaped
// as a single path segment.
func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}

// Repo fetches repository metadata.
func (c *Client) Repo(ctx context.Context, owner, repo string) (Repository, error) {
	var r Repository
	if err := c.FetchJSON(ctx, repoPath(owner, repo), &r); err != nil {
		return Repository{}, err
	}
	return r, nil
}

// Languages fetches the language breakdown in the order GitHub returns it.
func (c *Client) Languages(ctx context.Context, owner, repo string) (Languages, error) {
	var langs Languages
	if err := c.FetchJSON(ctx, repoPath(owner, repo)+"/languages", &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// Readme checks that the repository has a README. Only the status matters.
func (c *Client) Readme(ctx context.Context, owner, repo string) error {
	return c.FetchJSON(ctx, repoPath(owner, repo)+"/readme", nil)
}

// PullRequest fetches a pull request.
func (c *Client) PullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error) {
	var pr PullRequest
	if err := c.FetchJSON(ctx, fmt.Sprintf("%s/pulls/%d", repoPath(owner, repo), number), &pr); err != nil {
		return PullRequest{}, err
	}
	return pr, nil
}

// PullRequestFiles fetches the files changed in a pull request. Only the
// first page is requested.
func (c *Client) PullRequestFiles(ctx context.Context, owner, repo string, number int) ([]PRFile, error) {
	var files []PRFile
	if err := c.FetchJSON(ctx, fmt.Sprintf("%s/pulls/%d/files", repoPath(owner, repo), number), &files); err != nil {
		return nil, err
	}
	return files, nil
}
