package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint. Adds sensible defaults if not already set by the handler.
// Search results deliberately get a short private TTL: filters are highly
// personal and listings move fast.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		case path == "/v1/properties":
			ttl = "private, max-age=30" // Filtered search results

		case path == "/v1/listings/stats":
			ttl = "public, max-age=60" // Aggregates move only on writes

		case strings.Contains(path, "/properties/") && strings.HasSuffix(path, "/leases"):
			ttl = "private, max-age=60"

		case strings.HasPrefix(path, "/v1/properties/"):
			ttl = "public, max-age=300" // Single listing detail

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=120"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
