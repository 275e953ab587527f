// Package random draws short identifiers from crypto/rand.
package random

import (
	"crypto/rand"
	"fmt"
)

// Base36Upper is the alphabet of RMA suffixes.
const Base36Upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// String returns n characters drawn uniformly from alphabet, which must hold
// between 1 and 256 bytes.
func String(n int, alphabet string) (string, error) {
	size := len(alphabet)
	if size == 0 || size > 256 {
		return "", fmt.Errorf("random: alphabet size %d out of range", size)
	}
	if n <= 0 {
		return "", nil
	}

	// Bytes at or above limit would bias the modulo.
	limit := 256 - 256%size
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("random: read: %w", err)
		}
		for _, b := range buf {
			if int(b) < limit {
				out = append(out, alphabet[int(b)%size])
				if len(out) == n {
					break
				}
			}
		}
	}
	return string(out), nil
}

// UpperAlphaNum returns n characters from Base36Upper. It panics if the
// system randomness source fails.
func UpperAlphaNum(n int) string {
	s, err := String(n, Base36Upper)
	if err != nil {
		panic(err)
	}
	return s
}
