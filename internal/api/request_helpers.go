package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// clientIP extracts the originating client address, preferring the
// standard proxy headers over the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// formatCredits renders a balance for the response header.
func formatCredits(credits int) string {
	return strconv.Itoa(credits)
}
