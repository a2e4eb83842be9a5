package handlers

import (
	"net"
	"net/http"
	"strings"
)

// getClientIP picks the best available client address: first X-Forwarded-For
// entry, then X-Real-IP, then RemoteAddr with the port stripped.
func getClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if host == "::1" {
		return "127.0.0.1"
	}

	return host
}
