// Package sniff classifies uploads by their leading bytes.
//
// Only the content is inspected; client-supplied names and declared content
// types are never consulted.
package sniff

import (
	"github.com/h2non/filetype"
)

// HeaderSize is how many leading bytes are matched against the signature
// table. It covers the deepest offset any matcher looks at.
const HeaderSize = 8192

// Type is the result of a successful classification.
type Type struct {
	MIME      string
	Extension string
}

// Sniff matches the prefix of blob against known magic numbers. ok is false
// when nothing matches.
func Sniff(blob []byte) (t Type, ok bool) {
	if len(blob) == 0 {
		return Type{}, false
	}
	head := blob
	if len(head) > HeaderSize {
		head = head[:HeaderSize]
	}

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return Type{}, false
	}
	return Type{MIME: kind.MIME.Value, Extension: kind.Extension}, true
}
