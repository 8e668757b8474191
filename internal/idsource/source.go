package idsource

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

// DefaultLength is the length of generated session IDs.
const DefaultLength = 32

// Source generates random opaque identifiers.
type Source struct {
	Length int
}

func (s Source) randString(n int) string {
	ret := make([]byte, n)
	for i := range n {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		ret[i] = alphabet[num.Int64()]
	}

	return string(ret)
}

// SessionID returns a new random session ID.
func (s Source) SessionID() string {
	n := s.Length
	if n <= 0 {
		n = DefaultLength // Entropy E = L * log2(63) = 32 * log2(63) = 191.3 bits
	}

	return s.randString(n)
}

// Func adapts a plain function to the SessionID method set.
type Func func() string

func (f Func) SessionID() string { return f() }
