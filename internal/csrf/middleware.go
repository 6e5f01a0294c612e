package csrf

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

// HeaderName carries the double-submit token on mutating requests.
const HeaderName = "X-CSRF-Token"

// CookieName carries the cookie key the token is bound to.
const CookieName = "csrf-token"

var mutatingMethods = map[string]struct{}{
	fiber.MethodPost:   {},
	fiber.MethodPut:    {},
	fiber.MethodPatch:  {},
	fiber.MethodDelete: {},
}

// Protect enforces the double-submit check on mutating methods. Paths in
// exempt (login, register, health) pass through so a client can obtain its
// first token pair.
func Protect(store *Store, exempt []string) fiber.Handler {
	exemptSet := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptSet[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, mutating := mutatingMethods[c.Method()]; !mutating {
			return c.Next()
		}
		if _, ok := exemptSet[c.Path()]; ok {
			return c.Next()
		}

		token := c.Get(HeaderName)
		cookieKey := c.Cookies(CookieName)
		if token == "" || cookieKey == "" {
			return apperrors.NewCsrfError("missing CSRF token")
		}
		if !store.Validate(cookieKey, token) {
			return apperrors.NewCsrfError("invalid or expired CSRF token")
		}
		return c.Next()
	}
}
