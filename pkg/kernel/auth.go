package kernel

import (
	"slices"
	"strings"
)

// AuthContext is the identity attached to a request after token validation
type AuthContext struct {
	UserID UserID   `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   string   `json:"role,omitempty"`
	Scopes []string `json:"scopes"`
}

func (a *AuthContext) IsValid() bool {
	return a != nil && !a.UserID.IsEmpty()
}

// HasScope supports the "*" super scope and "resource:*" wildcards
func (a *AuthContext) HasScope(scope string) bool {
	for _, s := range a.Scopes {
		if s == scope || s == "*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(s, ":*"); ok && strings.HasPrefix(scope, prefix+":") {
			return true
		}
	}
	return false
}

func (a *AuthContext) HasAnyScope(scopes ...string) bool {
	return slices.ContainsFunc(scopes, a.HasScope)
}

func (a *AuthContext) HasAllScopes(scopes ...string) bool {
	for _, s := range scopes {
		if !a.HasScope(s) {
			return false
		}
	}
	return true
}

func (a *AuthContext) IsAdmin() bool {
	return a.HasScope("*") || a.HasScope("admin:*")
}

// DisplayName prefers the name claim and falls back to the email
func (a *AuthContext) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}
