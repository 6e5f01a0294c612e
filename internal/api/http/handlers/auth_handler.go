package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secure-gateway/internal/api/dto"
	"github.com/spec-kit/secure-gateway/internal/csrf"
	"github.com/spec-kit/secure-gateway/internal/service"
	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

const csrfCookieMaxAge = 24 * time.Hour

// AuthHandler exposes registration, login and logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	cred, session, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	setCsrfCookie(c, session.Csrf.CookieKey)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    cred.ID,
			"name":  cred.Name,
			"email": cred.Email,
		},
		"token":      session.Token,
		"csrfToken":  session.Csrf.Token,
		"expires_at": session.ExpiresAt,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	cred, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setCsrfCookie(c, session.Csrf.CookieKey)
	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    cred.ID,
			"name":  cred.Name,
			"email": cred.Email,
		},
		"token":      session.Token,
		"csrfToken":  session.Csrf.Token,
		"expires_at": session.ExpiresAt,
	})
}

// Logout handles POST /auth/logout. The CSRF entry bound to the presented
// cookie is dropped and the cookie is expired.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	cookieKey := c.Cookies(csrf.CookieName)
	h.auth.Logout(c.UserContext(), cookieKey)

	c.Cookie(&fiber.Cookie{
		Name:     csrf.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{"message": "logged out"})
}

func setCsrfCookie(c *fiber.Ctx, cookieKey string) {
	c.Cookie(&fiber.Cookie{
		Name:     csrf.CookieName,
		Value:    cookieKey,
		Path:     "/",
		MaxAge:   int(csrfCookieMaxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
