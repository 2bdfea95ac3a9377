package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyRealIP holds the resolved client address.
const ContextKeyRealIP = "real_ip"

// RealIP resolves the client address once per request and stores it under
// ContextKeyRealIP, where the rate limiter keys on it.
//
// CF-Connecting-IP, then the left-most X-Forwarded-For entry, are honoured only
// when the direct peer sits in one of the trusted proxy networks. Headers from
// any other peer are ignored.
func RealIP(trusted []*net.IPNet) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyRealIP, resolveClientIP(c.Request, trusted))
		c.Next()
	}
}

func resolveClientIP(r *http.Request, trusted []*net.IPNet) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer := net.ParseIP(strings.TrimSpace(host))
	if peer == nil {
		return host
	}
	if !inNetworks(peer, trusted) {
		return peer.String()
	}

	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return peer.String()
}

func inNetworks(ip net.IP, nets []*net.IPNet) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
