package auth

import (
	"errors"
	"net"
	"strings"
)

var (
	ErrIPUndetermined       = errors.New("unable to determine client IP")
	ErrIPNotAllowed         = errors.New("client IP is not allowed")
	ErrMissingCustomer      = errors.New("customer id is missing")
	ErrUnknownCustomer      = errors.New("no token configured for customer")
	ErrMissingAuthorization = errors.New("authorization header is missing")
	ErrInvalidToken         = errors.New("invalid token")
)

// IPAllowList admits requests whose client IP is in the configured set.
type IPAllowList struct {
	allowed map[string]struct{}
}

// NewIPAllowList builds the guard; an empty list disables it.
func NewIPAllowList(ips []string) *IPAllowList {
	if len(ips) == 0 {
		return &IPAllowList{}
	}
	allowed := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		allowed[normalizeIP(ip)] = struct{}{}
	}
	return &IPAllowList{allowed: allowed}
}

// IsEnforced reports whether the allow-list is active
func (l *IPAllowList) IsEnforced() bool {
	return l != nil && len(l.allowed) > 0
}

// Check returns nil when ip is allowed or the guard is disabled
func (l *IPAllowList) Check(ip string) error {
	if !l.IsEnforced() {
		return nil
	}
	if ip == "" {
		return ErrIPUndetermined
	}
	if _, ok := l.allowed[normalizeIP(ip)]; !ok {
		return ErrIPNotAllowed
	}
	return nil
}

func normalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.String()
	}
	return ip
}

// CustomerTokens resolves the expected ingestion token by customer id.
type CustomerTokens struct {
	tokens map[string]Secret
}

// NewCustomerTokens builds the guard; an empty map disables it.
func NewCustomerTokens(tokens map[string]string) *CustomerTokens {
	if len(tokens) == 0 {
		return &CustomerTokens{}
	}
	secrets := make(map[string]Secret, len(tokens))
	for id, token := range tokens {
		secrets[id] = ParseSecret(token)
	}
	return &CustomerTokens{tokens: secrets}
}

// IsEnforced reports whether per-customer tokens are configured
func (c *CustomerTokens) IsEnforced() bool {
	return c != nil && len(c.tokens) > 0
}

// Check validates the Authorization header presented for customerID.
// Order matters for the error returned: missing customer, unknown customer,
// missing header, then mismatch.
func (c *CustomerTokens) Check(customerID, authorization string) error {
	if !c.IsEnforced() {
		return nil
	}
	if customerID == "" {
		return ErrMissingCustomer
	}
	secret, ok := c.tokens[customerID]
	if !ok || !secret.IsEnforced() {
		return ErrUnknownCustomer
	}
	if strings.TrimSpace(authorization) == "" {
		return ErrMissingAuthorization
	}
	if !secret.Matches(BearerToken(authorization)) {
		return ErrInvalidToken
	}
	return nil
}

// ServiceToken guards the management surface with one shared secret.
type ServiceToken struct {
	secret Secret
}

// NewServiceToken builds the guard from a Secret
func NewServiceToken(secret Secret) *ServiceToken {
	return &ServiceToken{secret: secret}
}

// IsEnforced reports whether the shared secret is configured
func (s *ServiceToken) IsEnforced() bool {
	return s != nil && s.secret.IsEnforced()
}

// Check validates the Authorization header against the shared secret
func (s *ServiceToken) Check(authorization string) error {
	if !s.IsEnforced() {
		return nil
	}
	if strings.TrimSpace(authorization) == "" {
		return ErrMissingAuthorization
	}
	if !s.secret.Matches(BearerToken(authorization)) {
		return ErrInvalidToken
	}
	return nil
}
