package scopes

// ============================================================================
// COMMON SCOPES
// ============================================================================

const (
	// Super scope - full access to everything
	ScopeAll = "*"

	// Admin scopes
	ScopeAdminAll  = "admin:*"
	ScopeAdminRead = "admin:read"

	// Reports
	ScopeReportsView = "reports:view"
)

var CommonScopeCategories = map[string][]string{
	"Admin": {
		ScopeAdminAll,
		ScopeAdminRead,
	},
	"Reports": {
		ScopeReportsView,
	},
}

var CommonScopeDescriptions = map[string]string{
	ScopeAll:         "Full access to everything",
	ScopeAdminAll:    "Full administrative access",
	ScopeAdminRead:   "View administrative data",
	ScopeReportsView: "View dashboards and statistics",
}

var CommonScopeGroups = map[string][]string{
	RoleAdmin: {
		ScopeAll,
	},
}
