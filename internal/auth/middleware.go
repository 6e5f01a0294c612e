package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secure-gateway/internal/domain"
	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

const identityKey = "auth_identity"

// Middleware resolves bearer tokens into a caller identity.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Resolve attaches the caller identity when a bearer token is presented.
// Requests without an Authorization header continue as anonymous; a header
// that is present but malformed, forged, or expired is rejected with 401.
func (m *Middleware) Resolve(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(identityKey, domain.Identity{SubjectID: claims.SubjectID, Email: claims.Email})
	return c.Next()
}

// RequireAuth rejects anonymous callers.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the resolved caller identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	if !ok || identity.Anonymous() {
		return domain.Identity{}, false
	}
	return identity, true
}
