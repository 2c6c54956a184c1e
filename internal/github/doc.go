// Package github provides a minimal GitHub REST API client for the data an
// analysis run needs: repository metadata, language breakdown, README
// presence, and pull-request details with their changed files.
//
// The client is read-only. An optional bearer token is supplied at
// construction time; without one, requests are unauthenticated and subject
// to GitHub's anonymous rate limits. Non-2xx responses surface as
// [*HTTPError] and are never retried.
package github
