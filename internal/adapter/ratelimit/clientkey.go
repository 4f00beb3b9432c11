package ratelimit

import (
	"encoding/hex"
	"net"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ClientKey derives a per-caller bucket key. The first X-Forwarded-For hop
// is used only when the service sits behind a trusted proxy. The address is
// hashed so raw client IPs are never held in memory.
func ClientKey(remoteAddr, forwardedFor string, trustProxy bool) string {
	ip := ""
	if trustProxy && forwardedFor != "" {
		ip = strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if ip == "" {
		host, _, err := net.SplitHostPort(remoteAddr)
		if err != nil {
			host = remoteAddr
		}
		ip = strings.TrimSpace(host)
	}
	if ip == "" {
		return "client:unknown"
	}

	sum := blake2b.Sum256([]byte(ip))
	return "client:" + hex.EncodeToString(sum[:16])
}
