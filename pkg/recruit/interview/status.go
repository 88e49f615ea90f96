package interview

import (
	"strings"
)

// ============================================================================
// Status
// ============================================================================

// Status is the persisted lifecycle state of an interview. Localized
// labels are presentation only and never stored.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusInProgress     Status = "IN_PROGRESS"
	StatusAwaitingReview Status = "AWAITING_REVIEW"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
)

// AllStatuses in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusAwaitingReview,
	StatusCompleted,
	StatusCancelled,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusAwaitingReview, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// isManual reports whether the state was reached by a deliberate action, in
// which case wall-clock projection must leave it alone.
func (s Status) isManual() bool {
	return s == StatusAwaitingReview || s.IsTerminal()
}

// Rank orders statuses along the lifecycle. Completed and Cancelled share
// the last rank.
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusAwaitingReview:
		return 2
	case StatusCompleted, StatusCancelled:
		return 3
	}
	return -1
}

func (s Status) String() string { return string(s) }

// Label returns the display string for lang, falling back to Vietnamese
func (s Status) Label(lang Lang) string {
	labels, ok := statusLabels[lang]
	if !ok {
		labels = statusLabels[LangVI]
	}
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus accepts a status code in any case or one of the localized
// labels, including the legacy "Đang chờ đánh giá" spelling of AwaitingReview.
func ParseStatus(raw string) (Status, error) {
	trimmed := strings.TrimSpace(raw)
	if s := Status(strings.ToUpper(trimmed)); s.IsValid() {
		return s, nil
	}
	if s, ok := labelIndex[strings.ToLower(trimmed)]; ok {
		return s, nil
	}
	return "", ErrUnknownStatus().WithDetail("status", raw)
}

// ============================================================================
// Localization
// ============================================================================

type Lang string

const (
	LangVI Lang = "vi"
	LangEN Lang = "en"
)

func ParseLang(raw string) Lang {
	if strings.EqualFold(raw, string(LangEN)) {
		return LangEN
	}
	return LangVI
}

var statusLabels = map[Lang]map[Status]string{
	LangVI: {
		StatusPending:        "Đang chờ",
		StatusInProgress:     "Đang phỏng vấn",
		StatusAwaitingReview: "Đang đánh giá",
		StatusCompleted:      "Hoàn thành",
		StatusCancelled:      "Đã hủy",
	},
	LangEN: {
		StatusPending:        "Pending",
		StatusInProgress:     "In progress",
		StatusAwaitingReview: "Awaiting review",
		StatusCompleted:      "Completed",
		StatusCancelled:      "Cancelled",
	},
}

var labelIndex = func() map[string]Status {
	idx := map[string]Status{
		"đang chờ đánh giá": StatusAwaitingReview,
	}
	for _, labels := range statusLabels {
		for s, l := range labels {
			idx[strings.ToLower(l)] = s
		}
	}
	return idx
}()

// ============================================================================
// Format & Outcome
// ============================================================================

// Format is how the meeting takes place
type Format string

const (
	FormatOnSite Format = "ONSITE"
	FormatOnline Format = "ONLINE"
	FormatHybrid Format = "HYBRID"
)

var formatLabels = map[Format]string{
	FormatOnSite: "Trực tiếp",
	FormatOnline: "Online",
	FormatHybrid: "Hybrid",
}

func (f Format) IsValid() bool {
	_, ok := formatLabels[f]
	return ok
}

func (f Format) Label() string {
	if l, ok := formatLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseFormat accepts codes and the labels shown in the scheduling form.
// Empty input defaults to on-site.
func ParseFormat(raw string) (Format, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return FormatOnSite, true
	}
	if f := Format(strings.ToUpper(trimmed)); f.IsValid() {
		return f, true
	}
	for f, l := range formatLabels {
		if strings.EqualFold(l, trimmed) {
			return f, true
		}
	}
	return "", false
}

// Outcome is the hiring decision recorded with a review
type Outcome string

const (
	OutcomePass Outcome = "PASS"
	OutcomeFail Outcome = "FAIL"
)

func (o Outcome) IsValid() bool {
	return o == OutcomePass || o == OutcomeFail
}

func (o Outcome) Label() string {
	switch o {
	case OutcomePass:
		return "Đạt"
	case OutcomeFail:
		return "Không đạt"
	}
	return string(o)
}

// ParseOutcome accepts codes and the Vietnamese labels
func ParseOutcome(raw string) (Outcome, bool) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(trimmed, string(OutcomePass)), trimmed == "Đạt":
		return OutcomePass, true
	case strings.EqualFold(trimmed, string(OutcomeFail)), trimmed == "Không đạt":
		return OutcomeFail, true
	}
	return "", false
}
