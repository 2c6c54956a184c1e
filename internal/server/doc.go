// Package server exposes analysis over HTTP.
//
// Routes:
//
//	GET  /health       liveness probe
//	POST /api/analyze  {"url","type"} => JSON report
//	POST /api/share    {"url","type"} => plain-text share summary
//
// An unusable GitHub URL is not an HTTP error; the report carries the
// invalid-URL finding. Only malformed bodies and unknown analysis types are
// rejected with 400.
package server
