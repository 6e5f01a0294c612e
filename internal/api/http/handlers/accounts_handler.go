package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secure-gateway/internal/api/dto"
	"github.com/spec-kit/secure-gateway/internal/auth"
	"github.com/spec-kit/secure-gateway/internal/repository"
	"github.com/spec-kit/secure-gateway/internal/service"
	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

// AccountsHandler exposes authenticated account management.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// Create handles POST /accounts.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	cred, err := h.auth.CreateAccount(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    cred.ID,
			"name":  cred.Name,
			"email": cred.Email,
		},
	})
}

// Me handles GET /accounts/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	cred, err := h.auth.GetAccount(c.UserContext(), identity.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("account no longer exists")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    cred.ID,
			"name":  cred.Name,
			"email": cred.Email,
		},
	})
}
