package visitor

import (
	"crypto/rand"
	"encoding/hex"
)

// idBytes is the entropy size of a visitor identifier. 32 bytes hex-encode
// to the 64-character identifiers the collector expects.
const idBytes = 32

// Generate mints a new visitor identifier: 256 bits of cryptographically
// secure randomness rendered as a 64-character lowercase hex string.
// Identifiers are never reused; the caller is responsible for persisting
// the value in a long-lived cookie.
func Generate() string {
	b := make([]byte, idBytes)
	// crypto/rand.Read never returns an error on supported platforms (Go 1.24+).
	if _, err := rand.Read(b); err != nil {
		panic("visitor: entropy source unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
