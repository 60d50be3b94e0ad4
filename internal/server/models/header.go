// Package models defines server-side data models persisted in the backing
// document store.
package models

import (
	"strings"
	"time"
)

// Header describes one stored object. The blob bytes live in Fragment
// records that point back at ID.
type Header struct {
	// ID is the public identifier and primary key.
	ID string `json:"_id"`
	// DeleteKey authorizes removal of the object.
	DeleteKey string `json:"delete_key"`
	// ContentType and FileExtension are derived from the content at upload.
	ContentType   string `json:"content_type"`
	FileExtension string `json:"file_extension"`
	// ContentLength is the byte length of the original blob.
	ContentLength int64 `json:"content_length"`
	// TotalFragments is the number of Fragment records written for ID.
	TotalFragments int `json:"total_chunks"`
	// UploadedAt is the creation time in epoch milliseconds.
	UploadedAt int64 `json:"uploaded_at"`
}

// UploadedTime returns UploadedAt as a time.Time.
func (h *Header) UploadedTime() time.Time {
	return time.UnixMilli(h.UploadedAt)
}

// IsImage reports whether the content type is an image/* type.
func (h *Header) IsImage() bool {
	return strings.HasPrefix(h.ContentType, "image/") && len(h.ContentType) > len("image/")
}
