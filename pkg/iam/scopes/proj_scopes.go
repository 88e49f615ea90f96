package scopes

// ============================================================================
// RECRUITMENT SCOPES
// ============================================================================

const (
	// Interview scopes
	ScopeInterviewsAll      = "interviews:*"
	ScopeInterviewsRead     = "interviews:read"
	ScopeInterviewsSchedule = "interviews:schedule" // create interviews
	ScopeInterviewsWrite    = "interviews:write"    // edit and cancel
	ScopeInterviewsConduct  = "interviews:conduct"  // end an interview early
	ScopeInterviewsDelete   = "interviews:delete"

	// Review scopes
	ScopeReviewsAll   = "reviews:*"
	ScopeReviewsRead  = "reviews:read"
	ScopeReviewsWrite = "reviews:write" // submit and re-rate

	// Candidate scopes
	ScopeCandidatesRead = "candidates:read"

	// Assistant
	ScopeAssistantUse = "assistant:use"
)

// Role names carried in the "role" claim
const (
	RoleAdmin       = "admin"
	RoleHRManager   = "hr_manager"
	RoleRecruiter   = "recruiter"
	RoleInterviewer = "interviewer"
)

var DomainScopeCategories = map[string][]string{
	"Interviews": {
		ScopeInterviewsAll,
		ScopeInterviewsRead,
		ScopeInterviewsSchedule,
		ScopeInterviewsWrite,
		ScopeInterviewsConduct,
		ScopeInterviewsDelete,
	},
	"Reviews": {
		ScopeReviewsAll,
		ScopeReviewsRead,
		ScopeReviewsWrite,
	},
	"Candidates": {
		ScopeCandidatesRead,
	},
	"Assistant": {
		ScopeAssistantUse,
	},
}

var DomainScopeDescriptions = map[string]string{
	ScopeInterviewsAll:      "Full access to interviews",
	ScopeInterviewsRead:     "View interviews and their status",
	ScopeInterviewsSchedule: "Schedule new interviews",
	ScopeInterviewsWrite:    "Edit and cancel interviews",
	ScopeInterviewsConduct:  "End interviews early",
	ScopeInterviewsDelete:   "Delete interviews",
	ScopeReviewsAll:         "Full access to interview reviews",
	ScopeReviewsRead:        "View interview reviews and statistics",
	ScopeReviewsWrite:       "Submit and re-rate interview reviews",
	ScopeCandidatesRead:     "View candidates",
	ScopeAssistantUse:       "Chat with the recruitment assistant",
}

var DomainScopeGroups = map[string][]string{
	RoleHRManager: {
		ScopeInterviewsAll,
		ScopeReviewsAll,
		ScopeCandidatesRead,
		ScopeAssistantUse,
		ScopeReportsView,
	},
	RoleRecruiter: {
		ScopeInterviewsRead,
		ScopeInterviewsSchedule,
		ScopeInterviewsWrite,
		ScopeInterviewsDelete,
		ScopeReviewsRead,
		ScopeCandidatesRead,
		ScopeAssistantUse,
	},
	RoleInterviewer: {
		ScopeInterviewsRead,
		ScopeInterviewsConduct,
		ScopeReviewsRead,
		ScopeReviewsWrite,
	},
}
