package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// codeAlphabet drops 0/O and 1/I so codes survive being read aloud or retyped.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// CodeLength gives 32^10 = 2^50 possible proposal codes.
const CodeLength = 10

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewUUID returns a random (v4) UUID string used as a row primary key.
func NewUUID() string { return uuid.NewString() }

// NewCode returns a human-facing proposal code. Uniqueness is checked by the caller.
func NewCode() string {
	b := make([]byte, CodeLength)
	_, _ = rand.Read(b)
	out := make([]byte, CodeLength)
	for i, v := range b {
		// 256 is a multiple of 32, so masking keeps the distribution uniform.
		out[i] = codeAlphabet[v&31]
	}
	return string(out)
}

// NewSecurityCode returns the 128-bit secret paired with a proposal code.
func NewSecurityCode() string { return NewID32() }

// ValidCode reports whether s could have been produced by NewCode.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(codeAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}
