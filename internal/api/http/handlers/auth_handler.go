package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lexpage/landing-service/internal/api/dto"
	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/service"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// AuthHandler exposes login, signup and session endpoints for admins.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	_, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: token.Value, ExpiresAt: token.ExpiresAt})
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	principal, token, err := h.auth.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SignupResponse{
		OK:        true,
		User:      dto.NewUserResponse(principal),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.MeResponse{OK: true, User: dto.NewUserResponse(principal)})
}

// Logout handles POST /api/auth/logout. Tokens are not revoked; the client discards its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}
