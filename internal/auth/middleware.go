package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lexpage/landing-service/internal/domain"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

const principalKey = "auth_principal"

// Verifier turns a raw bearer token into the caller it was issued to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Principal, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	verifier Verifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c)
	if err != nil {
		return err
	}

	principal, err := m.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional loads the principal when a valid bearer token is sent and otherwise
// lets the request through anonymously.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	token, err := BearerToken(c)
	if err != nil {
		return c.Next()
	}
	if principal, err := m.verifier.Verify(c.UserContext(), token); err == nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok && principal != nil
}
