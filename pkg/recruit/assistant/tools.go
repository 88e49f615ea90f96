package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm/toolx"
	"github.com/Abraxas-365/hireflow/pkg/iam/scopes"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview/interviewsrv"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
	toolTimeLayout   = "15:04 02/01/2006"
)

// toolsFor offers only the tools the caller's scopes allow
func (s *Service) toolsFor(authContext *kernel.AuthContext) *toolx.ToolxClient {
	var tools []toolx.Toolx
	if authContext.HasScope(scopes.ScopeInterviewsRead) {
		tools = append(tools, s.listInterviewsTool(), s.summaryTool(), s.pendingReviewsTool())
	}
	if authContext.HasScope(scopes.ScopeReviewsRead) {
		tools = append(tools, s.reviewStatsTool())
	}
	return toolx.FromToolx(tools...)
}

// interviewRow is the compact shape the model sees
type interviewRow struct {
	ID          string `json:"id"`
	Candidate   string `json:"candidate"`
	Job         string `json:"job,omitempty"`
	Round       string `json:"round,omitempty"`
	Start       string `json:"start"`
	Minutes     int    `json:"duration_minutes"`
	Interviewer string `json:"interviewer"`
	Format      string `json:"format"`
	Status      string `json:"status"`
	Rating      *int   `json:"rating,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
}

func (s *Service) toRows(views []*interviewsrv.InterviewView, limit int) []interviewRow {
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	rows := make([]interviewRow, 0, len(views))
	for _, v := range views {
		row := interviewRow{
			ID:          v.ID.String(),
			Job:         v.JobTitle,
			Round:       v.Round,
			Start:       v.ScheduledStart.In(s.loc).Format(toolTimeLayout),
			Minutes:     v.DurationMinutes,
			Interviewer: v.InterviewerName,
			Format:      v.FormatLabel,
			Status:      v.StatusLabel,
		}
		if v.Candidate != nil {
			row.Candidate = v.Candidate.FullName
		}
		if v.Review != nil {
			rating := v.Review.Rating
			row.Rating = &rating
			row.Outcome = string(v.Review.Outcome)
		}
		rows = append(rows, row)
	}
	return rows
}

type listArgs struct {
	Status      string `json:"status"`
	Search      string `json:"search"`
	Interviewer string `json:"interviewer"`
	From        string `json:"from"`
	To          string `json:"to"`
	Limit       int    `json:"limit"`
}

func (s *Service) listInterviewsTool() toolx.Toolx {
	return toolx.NewFunc("list_interviews",
		"Liệt kê các buổi phỏng vấn, có thể lọc theo trạng thái, khoảng ngày, người phỏng vấn hoặc từ khóa (tên ứng viên, vị trí).",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{
					"type":        "string",
					"description": "Trạng thái: PENDING, IN_PROGRESS, AWAITING_REVIEW, COMPLETED, CANCELLED. Có thể liệt kê nhiều, cách nhau bởi dấu phẩy.",
				},
				"search":      map[string]any{"type": "string", "description": "Từ khóa tìm trong tên ứng viên, vị trí, người phỏng vấn"},
				"interviewer": map[string]any{"type": "string", "description": "Tên người phỏng vấn"},
				"from":        map[string]any{"type": "string", "description": "Ngày bắt đầu, dạng YYYY-MM-DD"},
				"to":          map[string]any{"type": "string", "description": "Ngày kết thúc (bao gồm), dạng YYYY-MM-DD"},
				"limit":       map[string]any{"type": "integer", "description": fmt.Sprintf("Số dòng tối đa, mặc định %d, tối đa %d", defaultListLimit, maxListLimit)},
			},
		},
		func(ctx context.Context, args listArgs) (any, error) {
			query := interviewsrv.ListQuery{
				Filter: interview.ListFilter{Interviewer: strings.TrimSpace(args.Interviewer)},
				Search: args.Search,
				Lang:   interview.LangVI,
			}
			for _, raw := range strings.Split(args.Status, ",") {
				if strings.TrimSpace(raw) == "" {
					continue
				}
				st, err := interview.ParseStatus(raw)
				if err != nil {
					return nil, err
				}
				query.Statuses = append(query.Statuses, st)
			}

			var err error
			if query.Filter.From, err = s.parseDay(args.From, false); err != nil {
				return nil, err
			}
			if query.Filter.To, err = s.parseDay(args.To, true); err != nil {
				return nil, err
			}

			limit := args.Limit
			if limit <= 0 {
				limit = defaultListLimit
			}
			limit = min(limit, maxListLimit)

			views, err := s.interviews.List(ctx, query)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"total":      len(views),
				"shown":      min(len(views), limit),
				"interviews": s.toRows(views, limit),
			}, nil
		},
	)
}

type emptyArgs struct{}

func (s *Service) summaryTool() toolx.Toolx {
	return toolx.NewFunc("interview_summary",
		"Đếm số buổi phỏng vấn theo trạng thái.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, _ emptyArgs) (any, error) {
			summary, err := s.interviews.Summary(ctx, interview.ListFilter{})
			if err != nil {
				return nil, err
			}
			byLabel := make(map[string]int, len(summary.ByStatus))
			for st, n := range summary.ByStatus {
				byLabel[st.Label(interview.LangVI)] = n
			}
			return map[string]any{
				"total":     summary.Total,
				"by_status": byLabel,
			}, nil
		},
	)
}

func (s *Service) pendingReviewsTool() toolx.Toolx {
	return toolx.NewFunc("pending_reviews",
		"Liệt kê các buổi phỏng vấn đã kết thúc nhưng chưa có đánh giá.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, _ emptyArgs) (any, error) {
			views, err := s.interviews.PendingReviews(ctx, interview.LangVI)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"total":      len(views),
				"interviews": s.toRows(views, maxListLimit),
			}, nil
		},
	)
}

type statsArgs struct {
	Outcome string `json:"outcome"`
}

func (s *Service) reviewStatsTool() toolx.Toolx {
	return toolx.NewFunc("review_stats",
		"Thống kê đánh giá phỏng vấn: tổng số, số đạt, điểm trung bình, tỉ lệ đạt.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"outcome": map[string]any{"type": "string", "enum": []string{"PASS", "FAIL"}, "description": "Chỉ tính các đánh giá có kết quả này"},
			},
		},
		func(ctx context.Context, args statsArgs) (any, error) {
			var filter interview.ReviewFilter
			if args.Outcome != "" {
				outcome, ok := interview.ParseOutcome(args.Outcome)
				if !ok {
					return nil, fmt.Errorf("outcome must be PASS or FAIL, got %q", args.Outcome)
				}
				filter.Outcome = &outcome
			}
			return s.interviews.ReviewStats(ctx, filter)
		},
	)
}

// parseDay reads YYYY-MM-DD in the service location. endOfDay moves to the
// next midnight so the day is included.
func (s *Service) parseDay(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
