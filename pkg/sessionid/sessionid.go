package sessionid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	// DefaultWindow is the session inactivity window in seconds. Timestamps
	// are bucketed by this width, so every request from the same client
	// inside one window derives the same session identifier.
	DefaultWindow int64 = 1800

	// fingerprintLen is the hex length of the client fingerprint fed into
	// the bucketed hash. Truncating to 128 bits keeps the fingerprint
	// domain visibly distinct from the 64-char visitor id domain.
	fingerprintLen = 32

	// unknown substitutes absent IP or user-agent inputs so derivation
	// stays total.
	unknown = "unknown"
)

// Deterministic derives a session identifier from a visitor identifier and
// a Unix timestamp bucketed by window seconds. The result is a pure function
// of its inputs: concurrent requests from the same visitor inside one bucket
// converge on the same session id without any coordination.
func Deterministic(visitorID string, timestamp, window int64) string {
	return bucketed(visitorID, timestamp, window)
}

// FromFingerprint derives a session identifier from the client IP and
// user-agent when no visitor identifier is known yet. Both inputs default to
// "unknown" when empty. The fingerprint is the first 32 hex characters of
// SHA-256("ip|ua"); it is then bucketed exactly like a visitor id.
func FromFingerprint(clientIP, userAgent string, timestamp, window int64) string {
	return bucketed(Fingerprint(clientIP, userAgent), timestamp, window)
}

// Fingerprint computes the 32-character client fingerprint used by
// FromFingerprint. Exposed so callers can log or compare fingerprints
// without re-deriving session ids.
func Fingerprint(clientIP, userAgent string) string {
	if clientIP == "" {
		clientIP = unknown
	}
	if userAgent == "" {
		userAgent = unknown
	}
	sum := sha256.Sum256([]byte(clientIP + "|" + userAgent))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Random mints a non-deterministic session identifier. Used only when
// neither a visitor id nor a request fingerprint is available.
func Random() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("sessionid: entropy source unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func bucketed(input string, timestamp, window int64) string {
	if window <= 0 {
		window = DefaultWindow
	}
	bucket := timestamp / window
	sum := sha256.Sum256(fmt.Appendf(nil, "%s_%d", input, bucket))
	return hex.EncodeToString(sum[:])
}
