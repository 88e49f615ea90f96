package auth

import (
	"sort"

	"github.com/Abraxas-365/hireflow/pkg/iam/scopes"
	"github.com/gofiber/fiber/v2"
)

// AuthHandlers exposes the caller's identity. Login happens at the
// identity provider.
type AuthHandlers struct{}

func NewAuthHandlers() *AuthHandlers {
	return &AuthHandlers{}
}

func (h *AuthHandlers) RegisterRoutes(router fiber.Router, authMiddleware *Middleware) {
	authGroup := router.Group("/auth", authMiddleware.Authenticate())
	authGroup.Get("/me", h.Me)
	authGroup.Get("/scopes", authMiddleware.RequireAdmin(), h.ListScopes)
}

type scopeInfo struct {
	Scope       string `json:"scope"`
	Description string `json:"description"`
}

// Me returns the authenticated user with effective scopes expanded
func (h *AuthHandlers) Me(c *fiber.Ctx) error {
	authContext, _ := GetAuthContext(c)

	seen := map[string]bool{}
	var effective []scopeInfo
	for _, granted := range authContext.Scopes {
		for _, s := range scopes.ExpandWildcardScope(granted) {
			if seen[s] {
				continue
			}
			seen[s] = true
			effective = append(effective, scopeInfo{Scope: s, Description: scopes.GetScopeDescription(s)})
		}
	}
	sort.Slice(effective, func(i, j int) bool { return effective[i].Scope < effective[j].Scope })

	return c.JSON(fiber.Map{
		"user_id": authContext.UserID,
		"email":   authContext.Email,
		"name":    authContext.DisplayName(),
		"role":    authContext.Role,
		"scopes":  effective,
	})
}

// ListScopes returns every known scope and the role templates
func (h *AuthHandlers) ListScopes(c *fiber.Ctx) error {
	all := scopes.GetAllScopes()
	sort.Strings(all)

	out := make([]scopeInfo, 0, len(all))
	for _, s := range all {
		out = append(out, scopeInfo{Scope: s, Description: scopes.GetScopeDescription(s)})
	}
	return c.JSON(fiber.Map{
		"scopes": out,
		"roles":  scopes.ScopeGroups,
	})
}
