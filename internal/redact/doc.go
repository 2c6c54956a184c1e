// Package redact masks credentials before they reach logs, printed
// configuration or exported reports.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, database connection strings, and provider-specific tokens
// (GitHub, Slack, OpenAI-style keys).
package redact
