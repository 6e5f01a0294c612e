package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Origin, Content-Type, Accept, Authorization, X-CSRF-Token"
	corsMaxAgeSec    = 600
)

// CorsPolicy validates cross-origin requests against a configured allow-list.
// Outside production any origin is admitted so local frontends work without
// configuration.
type CorsPolicy struct {
	AllowedOrigins []string
	Production     bool
}

// NewCorsPolicy builds the policy.
func NewCorsPolicy(allowedOrigins []string, production bool) *CorsPolicy {
	return &CorsPolicy{AllowedOrigins: allowedOrigins, Production: production}
}

// OriginAllowed reports whether the origin may make cross-origin calls.
func (p *CorsPolicy) OriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	if !p.Production {
		return true
	}
	for _, allowed := range p.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Middleware answers preflight requests with 204 and merges CORS headers
// onto every other response.
func (p *CorsPolicy) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)

		if c.Method() == fiber.MethodOptions {
			if p.OriginAllowed(origin) {
				p.setCommonHeaders(c, origin)
				c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)
				c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				c.Set(fiber.HeaderAccessControlMaxAge, strconv.Itoa(corsMaxAgeSec))
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		if p.OriginAllowed(origin) {
			p.setCommonHeaders(c, origin)
		}
		return c.Next()
	}
}

func (p *CorsPolicy) setCommonHeaders(c *fiber.Ctx, origin string) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
	c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
	c.Set(fiber.HeaderAccessControlExposeHeaders, "X-CSRF-Token")
	c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
}
