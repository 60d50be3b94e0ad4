// Package common defines shared constants and sentinel errors used across
// the blobhost server and client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrorIdentifierTaken = errors.New("identifier taken")
	ErrorBackingStore    = errors.New("backing store failure")

	// Upload validation errors.
	ErrorEmptyBlob             = errors.New("empty blob")
	ErrorUnclassifiableContent = errors.New("unclassifiable content")
	ErrorInvalidIdentifier     = errors.New("invalid identifier")

	// ErrorIDSpaceExhausted is returned when automatic id allocation keeps
	// colliding with existing headers past the configured attempt limit.
	ErrorIDSpaceExhausted = errors.New("identifier space exhausted")

	// Read-path errors.
	ErrorChunkConsistency = errors.New("chunk consistency error")

	// Auth errors (bad upload password or delete key).
	ErrorUnauthorized = errors.New("unauthorized")
)
