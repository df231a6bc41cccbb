package middleware

import (
	"errors"
	"log"
	"strings"

	"statefin-backend/internal/core/authz"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/jwt"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthMiddleware resolves the bearer access token into a principal.
// Refresh tokens are not accepted here.
func AuthMiddleware(tokens *jwt.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Get token from Authorization header
		accessToken := bearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 2. Validate token
		claims, err := tokens.Parse(accessToken)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 3. Only access tokens authenticate requests
		if claims.TokenType == jwt.TokenTypeRefresh {
			return response.Unauthorized(c, "Invalid access token")
		}

		// 4. Attach the principal
		c.Locals(principalKey, claims.Principal())
		return c.Next()
	}
}

// Require guards a route with an access expression. Every request is
// evaluated against the principal its own token carries.
func Require(expr authz.Expr) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := GetPrincipal(c)
		if principal == nil {
			return response.Unauthorized(c, "Authentication required")
		}
		if !authz.Evaluate(principal, expr) {
			log.Printf("⛔ Access denied: user=%s %s %s requires %s", principal.Username, c.Method(), c.Path(), expr)
			return response.Forbidden(c, domain.ErrAccessDenied.Message)
		}
		return c.Next()
	}
}

// GetPrincipal returns the principal attached by AuthMiddleware, or nil
func GetPrincipal(c *fiber.Ctx) *domain.Principal {
	principal, _ := c.Locals(principalKey).(*domain.Principal)
	return principal
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
