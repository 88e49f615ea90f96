package interviewsrv

import (
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
)

// InterviewView is an interview as presented to callers: the stored record
// plus everything derived from it at read time.
type InterviewView struct {
	*interview.Interview

	EffectiveStatus interview.Status      `json:"effective_status"`
	StatusLabel     string                `json:"status_label"`
	FormatLabel     string                `json:"format_label"`
	ScheduledEnd    time.Time             `json:"scheduled_end"`
	AllowedActions  []interview.Operation `json:"allowed_actions"`

	Candidate *interview.Participant `json:"candidate,omitempty"`
	JobTitle  string                 `json:"job_title,omitempty"`
	Review    *interview.Review      `json:"review,omitempty"`
}

// ListQuery narrows List. Statuses here are effective statuses and are
// applied after derivation; Filter is pushed down to storage.
type ListQuery struct {
	Filter   interview.ListFilter
	Statuses []interview.Status
	Search   string
	Lang     interview.Lang
}

func newView(iv *interview.Interview, now time.Time, lang interview.Lang) *InterviewView {
	effective := iv.EffectiveStatus(now)
	return &InterviewView{
		Interview:       iv,
		EffectiveStatus: effective,
		StatusLabel:     effective.Label(lang),
		FormatLabel:     iv.Format.Label(),
		ScheduledEnd:    iv.ScheduledEnd(),
		AllowedActions:  iv.AllowedActions(now),
	}
}

func (v *InterviewView) attach(people map[kernel.CandidateID]interview.Participant, titles map[kernel.JobID]string) {
	if p, ok := people[v.CandidateID]; ok {
		v.Candidate = &p
	}
	v.JobTitle = titles[v.JobID]
}

func (v *InterviewView) matches(q ListQuery) bool {
	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, v.EffectiveStatus) {
		return false
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	haystack := []string{v.InterviewerName, v.Round, v.JobTitle}
	if v.Candidate != nil {
		haystack = append(haystack, v.Candidate.FullName, v.Candidate.Email)
	}
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
