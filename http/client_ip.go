package http

import (
	"net/http"
	"strings"
)

// UnknownClient is the bucket shared by every request that carries no
// forwarding header.
const UnknownClient = "unknown"

// ClientIP returns the first X-Forwarded-For address, then X-Real-IP, then
// UnknownClient. RemoteAddr is ignored: behind the proxy it is always the
// proxy itself.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return UnknownClient
}
