package auth

import (
	"strings"

	"github.com/Abraxas-365/hireflow/pkg/iam"
	"github.com/Abraxas-365/hireflow/pkg/iam/scopes"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// TokenValidator is what the middleware needs from the JWT service
type TokenValidator interface {
	ValidateAccessToken(token string) (*TokenClaims, error)
}

type Middleware struct {
	tokens     TokenValidator
	cookieName string
}

func NewMiddleware(tokens TokenValidator, cookieName string) *Middleware {
	if cookieName == "" {
		cookieName = "access_token"
	}
	return &Middleware{
		tokens:     tokens,
		cookieName: cookieName,
	}
}

// Authenticate reads a bearer token, or the access token cookie, and stores
// the resulting AuthContext in c.Locals("auth").
func (am *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(am.cookieName)
		}

		if token == "" {
			return unauthorized(c, string(iam.CodeUnauthorized), "Authentication required")
		}

		claims, err := am.tokens.ValidateAccessToken(token)
		if err != nil {
			return unauthorized(c, string(iam.CodeTokenInvalid), err.Error())
		}

		c.Locals("auth", &kernel.AuthContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   claims.Role,
			Scopes: claims.Scopes,
		})
		return c.Next()
	}
}

// RequireScope - Requires a specific scope
func (am *Middleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return unauthorized(c, string(iam.CodeUnauthorized), "Authentication required")
		}

		if !authContext.HasScope(scope) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":          "Insufficient permissions",
				"code":           iam.CodeForbidden,
				"required_scope": scope,
			})
		}

		return c.Next()
	}
}

// RequireAnyScope - Requires any of the provided scopes
func (am *Middleware) RequireAnyScope(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return unauthorized(c, string(iam.CodeUnauthorized), "Authentication required")
		}

		if !authContext.HasAnyScope(required...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":           "Insufficient permissions",
				"code":            iam.CodeForbidden,
				"required_scopes": required,
			})
		}

		return c.Next()
	}
}

// RequireAllScopes - Requires ALL specified scopes
func (am *Middleware) RequireAllScopes(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return unauthorized(c, string(iam.CodeUnauthorized), "Authentication required")
		}

		if !authContext.HasAllScopes(required...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":           "Insufficient permissions",
				"code":            iam.CodeForbidden,
				"required_scopes": required,
			})
		}

		return c.Next()
	}
}

// RequireAdmin - Only tokens carrying "*" or "admin:*"
func (am *Middleware) RequireAdmin() fiber.Handler {
	return am.RequireAnyScope(scopes.ScopeAll, scopes.ScopeAdminAll)
}

// GetAuthContext helper to extract auth context from Fiber
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals("auth").(*kernel.AuthContext)
	return authContext, ok && authContext.IsValid()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
