// Package ragflow implements store.Store against a RAGFlow-style HTTP API.
//
// Every endpoint wraps its result in a {code, message, data} envelope; a
// non-zero code is an application error even when the HTTP status is 200.
// Requests authenticate with a bearer token and share a pooled transport.
package ragflow
