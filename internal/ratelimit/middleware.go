package ratelimit

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

// KeyFunc derives the bucket key for a request.
type KeyFunc func(c *fiber.Ctx) string

// SkipFunc exempts a request from limiting entirely.
type SkipFunc func(c *fiber.Ctx) bool

// ByIP keys buckets on the caller address.
func ByIP(c *fiber.Ctx) string {
	return c.IP()
}

// ByIPAndPath keys buckets per caller per route.
func ByIPAndPath(c *fiber.Ctx) string {
	return c.IP() + "|" + c.Path()
}

// Middleware builds a stage enforcing the limiter. A nil keyFn defaults to
// ByIP; a nil skipFn skips nothing. Denied requests get 429 with Retry-After
// and X-RateLimit-* headers.
func Middleware(limiter *Limiter, keyFn KeyFunc, skipFn SkipFunc) fiber.Handler {
	if keyFn == nil {
		keyFn = ByIP
	}

	return func(c *fiber.Ctx) error {
		if skipFn != nil && skipFn(c) {
			return c.Next()
		}

		decision := limiter.Allow(keyFn(c))
		if decision.Allowed {
			return c.Next()
		}

		retryAfter := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		c.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Set("X-RateLimit-Remaining", "0")
		c.Set("X-RateLimit-Reset", decision.ResetAt.UTC().Format(time.RFC3339))

		return apperrors.NewRateLimited("too many requests", map[string]any{
			"retry_after_seconds": retryAfter,
		})
	}
}
