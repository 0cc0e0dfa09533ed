package handlers

import (
	"net"
	"net/http"
	"strings"
)

// RateLimiter spends one token from the budget named by key.
type RateLimiter interface {
	Allow(key string) bool
}

// uploadAllowed charges the calling client one upload. A nil limiter admits everything.
func uploadAllowed(limiter RateLimiter, r *http.Request) bool {
	return limiter == nil || limiter.Allow(uploadKey(r))
}

// uploadKey names the client's upload budget. Every upload endpoint shares it.
func uploadKey(r *http.Request) string {
	return "upload:" + clientAddress(r)
}

// clientAddress prefers the first proxy hop, then X-Real-IP, then the socket peer.
func clientAddress(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	peer := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(peer); err == nil && host != "" {
		return host
	}
	return peer
}
