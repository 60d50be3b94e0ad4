// Package randx provides unpredictable random strings drawn from a fixed
// alphabet. It is used for public object identifiers and delete keys.
package randx

import (
	"crypto/rand"
	"errors"
	"io"
)

// Alphanumeric is the alphabet used for identifiers and delete keys.
const Alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ErrEmptyAlphabet is returned when a Source has nothing to draw from.
var ErrEmptyAlphabet = errors.New("randx: empty alphabet")

// Generator produces random strings of a requested length.
type Generator interface {
	String(n int) (string, error)
}

// Source draws characters uniformly from an alphabet using a random byte
// stream (crypto/rand by default).
type Source struct {
	alphabet string
	reader   io.Reader
}

// New returns a Source over alphabet backed by crypto/rand.
func New(alphabet string) *Source {
	return &Source{alphabet: alphabet, reader: rand.Reader}
}

// NewWithReader is like New but reads randomness from r.
func NewWithReader(alphabet string, r io.Reader) *Source {
	return &Source{alphabet: alphabet, reader: r}
}

// String returns a random string of n characters.
//
// Bytes that would bias the modulo reduction are rejected, so every
// character of the alphabet is equally likely.
//
// Example:
//
//	id, err := randx.New(randx.Alphanumeric).String(6)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(id) // e.g., "aZ3kQ9"
func (s *Source) String(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	size := len(s.alphabet)
	if size == 0 || size > 256 {
		return "", ErrEmptyAlphabet
	}

	limit := 256 - (256 % size)
	out := make([]byte, 0, n)
	buf := make([]byte, n)

	for len(out) < n {
		if _, err := io.ReadFull(s.reader, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, s.alphabet[int(b)%size])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
