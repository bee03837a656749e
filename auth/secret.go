package auth

import (
	"crypto/subtle"
	"strings"
)

/* Secret is a guard credential that is either Disabled or Enforced.
 * Guards are fail-open: an unconfigured secret turns the check off. This is
 * intended for development and staging deployments and is visible in the type
 * rather than hidden behind an empty-string check.
 */
type Secret struct {
	value    []byte
	enforced bool
}

// Disabled returns a secret that accepts every request
func Disabled() Secret {
	return Secret{}
}

// Enforced returns a secret that must be presented verbatim
func Enforced(value string) Secret {
	return Secret{value: []byte(value), enforced: true}
}

// ParseSecret maps an empty (or whitespace-only) configuration value to Disabled
func ParseSecret(value string) Secret {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	return Enforced(value)
}

// IsEnforced reports whether the secret takes part in authentication
func (s Secret) IsEnforced() bool {
	return s.enforced
}

// Matches compares the presented token in constant time.
// A disabled secret never matches; callers check IsEnforced first.
func (s Secret) Matches(presented string) bool {
	if !s.enforced {
		return false
	}
	return Equal(s.value, []byte(presented))
}

// Equal compares a and b without short-circuiting on the first differing byte.
// Lengths are compared first; the length is not the secret.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// BearerToken extracts the token from an Authorization header value.
// Both "Bearer <token>" and a bare token are accepted.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
