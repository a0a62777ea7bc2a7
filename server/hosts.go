package server

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TrustedHosts rejects requests whose Host header matches none of hosts
// with 400. "*" allows everything and "*.example.com" allows any subdomain.
func TrustedHosts(hosts []string) fiber.Handler {
	allowAll := len(hosts) == 0
	patterns := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "*" {
			allowAll = true
		}
		patterns = append(patterns, h)
	}

	return func(c *fiber.Ctx) error {
		if allowAll {
			return c.Next()
		}

		host := strings.ToLower(c.Hostname())
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}

		for _, pattern := range patterns {
			if matchHost(pattern, host) {
				return c.Next()
			}
		}

		return fiber.NewError(fiber.StatusBadRequest, "Invalid host header")
	}
}

func matchHost(pattern, host string) bool {
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return strings.HasSuffix(host, "."+suffix)
	}
	return pattern == host
}
