package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	cspDevelopment = "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'"
	cspProduction  = "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; connect-src 'self'"

	hstsValue = "max-age=31536000; includeSubDomains"

	staticCacheControl = "public, max-age=86400"
	apiCacheControl    = "no-store, no-cache, must-revalidate"
)

// HeaderPolicy computes response security headers from content type,
// environment and path.
type HeaderPolicy struct {
	Production      bool
	StaticPrefixes  []string
	PrivatePrefixes []string
}

// NewHeaderPolicy builds the policy for the deployment environment.
func NewHeaderPolicy(production bool) *HeaderPolicy {
	return &HeaderPolicy{
		Production:      production,
		StaticPrefixes:  []string{"/static", "/assets"},
		PrivatePrefixes: []string{"/accounts"},
	}
}

// Middleware applies the policy to every outgoing response after the rest of
// the chain has produced it. The content type is only known on the way out.
func (p *HeaderPolicy) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		p.Apply(c)
		return err
	}
}

// Apply sets the header set on the response in flight.
func (p *HeaderPolicy) Apply(c *fiber.Ctx) {
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("X-Frame-Options", "DENY")
	c.Set("X-XSS-Protection", "1; mode=block")
	c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

	c.Response().Header.Del(fiber.HeaderServer)
	c.Response().Header.Del("X-Powered-By")

	contentType := string(c.Response().Header.ContentType())
	if strings.Contains(contentType, fiber.MIMETextHTML) {
		if p.Production {
			c.Set(fiber.HeaderContentSecurityPolicy, cspProduction)
		} else {
			c.Set(fiber.HeaderContentSecurityPolicy, cspDevelopment)
		}
	}

	if p.Production {
		c.Set(fiber.HeaderStrictTransportSecurity, hstsValue)
	}

	c.Set(fiber.HeaderCacheControl, p.cacheControl(c.Path()))
}

func (p *HeaderPolicy) cacheControl(path string) string {
	for _, prefix := range p.StaticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return staticCacheControl
		}
	}
	for _, prefix := range p.PrivatePrefixes {
		if strings.HasPrefix(path, prefix) {
			return apiCacheControl + ", private"
		}
	}
	return apiCacheControl
}
