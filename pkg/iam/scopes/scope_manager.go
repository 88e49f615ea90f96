package scopes

import (
	"maps"
	"slices"
	"strings"
)

// Merged views over the common and domain tables
var (
	ScopeCategories   = merge(CommonScopeCategories, DomainScopeCategories)
	ScopeDescriptions = merge(CommonScopeDescriptions, DomainScopeDescriptions)
	ScopeGroups       = merge(CommonScopeGroups, DomainScopeGroups)

	// known is every category scope, sorted and unique
	known = func() []string {
		var all []string
		for _, list := range ScopeCategories {
			all = append(all, list...)
		}
		slices.Sort(all)
		return slices.Compact(all)
	}()
)

func merge[V any](tables ...map[string]V) map[string]V {
	out := make(map[string]V)
	for _, t := range tables {
		maps.Copy(out, t)
	}
	return out
}

// GetScopesByGroup returns the scopes of a role template, or nil
func GetScopesByGroup(group string) []string {
	return ScopeGroups[group]
}

// ResolveScopes returns the known explicit scopes when any are present,
// otherwise the scopes of the role template. Unknown roles get nothing.
func ResolveScopes(explicit []string, role string) []string {
	if len(explicit) > 0 {
		return slices.DeleteFunc(slices.Clone(explicit), func(s string) bool {
			return !ValidateScope(s)
		})
	}
	return slices.Clone(GetScopesByGroup(strings.ToLower(strings.TrimSpace(role))))
}

func GetScopeDescription(scope string) string {
	if desc, ok := ScopeDescriptions[scope]; ok {
		return desc
	}
	return "No description available"
}

// GetAllScopes returns every known scope in lexical order
func GetAllScopes() []string {
	return slices.Clone(known)
}

func ValidateScope(scope string) bool {
	if scope == ScopeAll {
		return true
	}
	_, found := slices.BinarySearch(known, scope)
	return found
}

// ExpandWildcardScope lists the scopes a grant covers, the grant included:
// "reviews:*" gives reviews:*, reviews:read and reviews:write.
func ExpandWildcardScope(grant string) []string {
	if grant == ScopeAll {
		return GetAllScopes()
	}
	prefix, ok := strings.CutSuffix(grant, ":*")
	if !ok {
		return []string{grant}
	}

	var expanded []string
	for _, s := range known {
		if strings.HasPrefix(s, prefix+":") {
			expanded = append(expanded, s)
		}
	}
	return expanded
}
