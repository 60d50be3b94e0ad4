// Package client contains the HTTP client for a blobhost server.
//
// # Overview
//
// The Client interface is the API contract the CLI talks to: Upload,
// Get, Info and Delete. HTTPClient implements it over the server's JSON
// and raw-byte endpoints.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; a rejected upload password is
// ErrUnauthorized. Every other non-success reply becomes an *APIError whose
// Unwrap yields the matching sentinel from internal/common (for example
// common.ErrorNotFound for "not_found"), so callers can use errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
