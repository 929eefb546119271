// Package auth provides the admin session gate: a shared passphrase
// check and HMAC-signed session tokens. This is a UI gate for a single
// operator, not a multi-user authorization scheme.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CheckPassphrase compares the submitted passphrase against the
// configured one. When the configured value is a bcrypt hash the
// comparison goes through bcrypt; otherwise it is a constant-time
// plain comparison.
func CheckPassphrase(configured, submitted string) bool {
	if configured == "" || submitted == "" {
		return false
	}
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") || strings.HasPrefix(configured, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}

// HashPassphrase produces a bcrypt hash suitable for MDC_ADMIN_PASSPHRASE.
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
