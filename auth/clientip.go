package auth

import (
	"net"
	"net/http"
	"strings"
)

// Headers set by the fronting proxy, checked in order.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP extracts the client address from proxy-injected headers only.
// For a forwarded-for chain the first (client) entry wins. An empty string
// means the address could not be determined.
func ClientIP(r *http.Request) string {
	for _, h := range clientIPHeaders {
		if v := r.Header.Get(h); v != "" {
			first, _, _ := strings.Cut(v, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	return ""
}

// SourceIP is ClientIP with a fallback to the connection's remote address.
// It is used for record keeping, never for access decisions.
func SourceIP(r *http.Request) string {
	if ip := ClientIP(r); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
