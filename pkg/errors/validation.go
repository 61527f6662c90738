package errors

import (
	"strings"
	"unicode"
)

// maxAddressLength bounds accepted addresses. Bech32 addresses top out at 90
// characters; the margin covers explorers with longer script identifiers.
const maxAddressLength = 128

// ValidateAddress trims an address and checks it is safe to place in a URL path.
//
// The rules are conservative:
//   - Blank input (after trimming) fails with ErrCodeEmptyAddress
//   - Control characters, whitespace and path separators fail with ErrCodeInvalidInput
//   - Addresses longer than 128 characters fail with ErrCodeInvalidInput
//
// Chain-specific checksum validation is left to the explorer.
// The trimmed address is returned on success.
func ValidateAddress(address string) (string, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return "", New(ErrCodeEmptyAddress, "missing address")
	}

	if len(addr) > maxAddressLength {
		return "", New(ErrCodeInvalidInput, "address too long (max %d characters)", maxAddressLength)
	}

	for _, r := range addr {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return "", New(ErrCodeInvalidInput, "address contains invalid characters")
		}
	}

	for _, pattern := range []string{"/", "\\", "..", "?", "#"} {
		if strings.Contains(addr, pattern) {
			return "", New(ErrCodeInvalidInput, "address contains invalid characters: %q", pattern)
		}
	}

	return addr, nil
}

// ValidateLimit checks a page size against the explorer bounds.
func ValidateLimit(limit, maxLimit int) error {
	if limit < 1 || limit > maxLimit {
		return New(ErrCodeInvalidInput, "limit must be between 1 and %d, got %d", maxLimit, limit)
	}
	return nil
}
