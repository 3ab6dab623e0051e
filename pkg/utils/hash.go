package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a short SHA-256 digest of a personal value so logs can
// correlate submissions without carrying the value itself
func Fingerprint(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "-"
	}

	h := sha256.New()
	h.Write([]byte(normalized))

	return hex.EncodeToString(h.Sum(nil))[:12]
}
