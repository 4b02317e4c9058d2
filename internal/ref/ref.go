// Package ref generates and validates human-readable reservation
// reference codes of the form BK-XXXXXXXX.
package ref

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

const prefix = "BK-"
const codeLen = 8

// alphabet deliberately omits 0/O, 1/I and other glyphs that are easy
// to misread over the phone.
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

var refRe = regexp.MustCompile(`^BK-[23456789A-HJ-NP-Z]{8}$`)

// New returns a fresh reference code. Codes are random, not
// sequential, so they leak nothing about booking volume.
func New() (string, error) {
	buf := make([]byte, codeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return prefix + string(buf), nil
}

// Valid reports whether s is a well-formed reference code.
func Valid(s string) bool {
	return refRe.MatchString(s)
}
