package interview

import (
	"sort"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is the assessment recorded when an interview is completed. There
// is at most one per interview.
type Review struct {
	ID          kernel.ReviewID    `db:"id" json:"id"`
	InterviewID kernel.InterviewID `db:"interview_id" json:"interview_id"`
	Rating      int                `db:"rating" json:"rating"`
	Outcome     Outcome            `db:"outcome" json:"outcome"`
	Notes       *string            `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// Rerate changes rating and notes in place. The outcome stays as first
// submitted. A nil notes pointer keeps the current notes.
func (r *Review) Rerate(rating int, notes *string, now time.Time) error {
	fields := FieldErrors{}
	validateRating(rating, fields)
	if err := fields.Err(); err != nil {
		return err
	}

	r.Rating = rating
	if notes != nil {
		r.Notes = normalizeNotes(*notes)
	}
	r.UpdatedAt = now
	return nil
}

func (r *Review) Passed() bool {
	return r.Outcome == OutcomePass
}

func validateRating(rating int, fields FieldErrors) {
	switch {
	case rating == 0:
		fields.Add("rating", "rating required")
	case rating < MinRating || rating > MaxRating:
		fields.Add("rating", "rating must be between 1 and 5")
	}
}

func normalizeNotes(notes string) *string {
	if notes == "" {
		return nil
	}
	return &notes
}

// ============================================================================
// DTOs
// ============================================================================

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Outcome string `json:"outcome"`
	Notes   string `json:"notes" validate:"max=5000"`
}

type RerateRequest struct {
	Rating int     `json:"rating"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type ReviewFilter struct {
	InterviewIDs []kernel.InterviewID
	Outcome      *Outcome
}

// ReviewStats is the aggregate shown on the reviews dashboard
type ReviewStats struct {
	Total         int     `json:"total"`
	Passed        int     `json:"passed"`
	AverageRating float64 `json:"average_rating"`
	PassRate      float64 `json:"pass_rate"`
}

// LatestPerInterview keeps the most recently created review of each
// interview, newest first.
func LatestPerInterview(reviews []*Review) []*Review {
	latest := make(map[kernel.InterviewID]*Review, len(reviews))
	for _, r := range reviews {
		if cur, ok := latest[r.InterviewID]; !ok || r.CreatedAt.After(cur.CreatedAt) {
			latest[r.InterviewID] = r
		}
	}

	out := make([]*Review, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ComputeReviewStats aggregates one review per interview. PassRate is a
// percentage rounded to one decimal.
func ComputeReviewStats(reviews []*Review) ReviewStats {
	deduped := LatestPerInterview(reviews)

	stats := ReviewStats{Total: len(deduped)}
	if stats.Total == 0 {
		return stats
	}

	sum := 0
	for _, r := range deduped {
		sum += r.Rating
		if r.Passed() {
			stats.Passed++
		}
	}
	stats.AverageRating = round1(float64(sum) / float64(stats.Total))
	stats.PassRate = round1(float64(stats.Passed) * 100 / float64(stats.Total))
	return stats
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
