package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/office-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// SessionView exposes the signed-in user of the auth store.
type SessionView interface {
	CurrentUser() (domain.User, bool)
	HasPermission(permission string) bool
}

// Principal represents the authenticated caller.
type Principal struct {
	User  domain.User
	Token string
}

// AuthMiddleware validates bearer tokens against the current session.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionView
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionView) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, ok := m.sessions.CurrentUser()
	if !ok || user.ID != claims.Subject {
		return apperrors.NewUnauthorized("session expired")
	}

	c.Locals(principalKey, &Principal{User: user, Token: parts[1]})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
