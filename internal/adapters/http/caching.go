package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/urgent-jobs"):
			ttl = "no-store" // Urgent feeds must never be stale

		case strings.HasPrefix(path, "/v1/courses"):
			ttl = "public, max-age=600" // Catalogue is stable

		case strings.HasPrefix(path, "/v1/employers"):
			ttl = "public, max-age=3600" // 1 hour for stable data

		case strings.HasPrefix(path, "/v1/certifications/verify"):
			ttl = "no-store" // Verification must reflect revocations

		case strings.HasPrefix(path, "/v1/jobs/search"):
			ttl = "public, max-age=120" // 2 min for search results

		case strings.HasPrefix(path, "/v1/jobs"):
			ttl = "public, max-age=60" // Listings churn quickly

		case strings.HasPrefix(path, "/v1/kyc"):
			ttl = "private, max-age=0" // Identity data is per-user

		case path == "/v1/stats":
			ttl = "public, max-age=60" // Marketplace stats: 1 min

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300" // 5 min default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
