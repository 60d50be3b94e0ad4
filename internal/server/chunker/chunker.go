// Package chunker splits blobs into fixed-size fragments and joins them back.
// It performs no I/O.
package chunker

import "errors"

// ErrInvalidChunkSize is returned for chunk sizes below one byte.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Count returns how many fragments a blob of n bytes splits into.
func Count(n, chunkSize int) int {
	if n <= 0 || chunkSize <= 0 {
		return 0
	}
	return (n + chunkSize - 1) / chunkSize
}

// Split cuts blob into ceil(len(blob)/chunkSize) fragments. Every fragment
// holds exactly chunkSize bytes except the last, which holds the remainder.
// An empty blob yields no fragments.
//
// Fragments are copies; mutating blob afterwards does not affect them.
func Split(blob []byte, chunkSize int) ([][]byte, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if len(blob) == 0 {
		return nil, nil
	}

	chunks := make([][]byte, 0, Count(len(blob), chunkSize))
	for start := 0; start < len(blob); start += chunkSize {
		end := min(start+chunkSize, len(blob))
		chunk := make([]byte, end-start)
		copy(chunk, blob[start:end])
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Join concatenates fragments in the order given. It does not reorder or
// check for gaps; callers pass fragments sorted by index.
func Join(fragments [][]byte) []byte {
	total := 0
	for _, f := range fragments {
		total += len(f)
	}

	out := make([]byte, 0, total)
	for _, f := range fragments {
		out = append(out, f...)
	}
	return out
}
