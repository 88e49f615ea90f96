package interviewapi

import (
	"strings"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/iam/auth"
	"github.com/Abraxas-365/hireflow/pkg/iam/scopes"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview/interviewsrv"
	"github.com/gofiber/fiber/v2"
)

// InterviewHandlers exposes the interview lifecycle over HTTP
type InterviewHandlers struct {
	service *interviewsrv.InterviewService
	loc     *time.Location
}

// NewInterviewHandlers builds the handlers. loc is used to read date-only
// query parameters.
func NewInterviewHandlers(service *interviewsrv.InterviewService, loc *time.Location) *InterviewHandlers {
	if loc == nil {
		loc = time.Local
	}
	return &InterviewHandlers{
		service: service,
		loc:     loc,
	}
}

func (h *InterviewHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.Middleware) {
	interviews := router.Group("/interviews", authMiddleware.Authenticate())

	interviews.Get("/", authMiddleware.RequireScope(scopes.ScopeInterviewsRead), h.ListInterviews)
	interviews.Get("/summary", authMiddleware.RequireScope(scopes.ScopeInterviewsRead), h.GetSummary)
	interviews.Get("/pending-reviews", authMiddleware.RequireScope(scopes.ScopeInterviewsRead), h.ListPendingReviews)
	interviews.Get("/:id", authMiddleware.RequireScope(scopes.ScopeInterviewsRead), h.GetInterview)

	interviews.Post("/", authMiddleware.RequireScope(scopes.ScopeInterviewsSchedule), h.ScheduleInterview)
	interviews.Put("/:id", authMiddleware.RequireScope(scopes.ScopeInterviewsWrite), h.UpdateInterview)
	interviews.Post("/:id/end", authMiddleware.RequireScope(scopes.ScopeInterviewsConduct), h.EndInterview)
	interviews.Post("/:id/cancel", authMiddleware.RequireScope(scopes.ScopeInterviewsWrite), h.CancelInterview)
	interviews.Post("/:id/review", authMiddleware.RequireScope(scopes.ScopeReviewsWrite), h.SubmitReview)
	interviews.Delete("/:id", authMiddleware.RequireScope(scopes.ScopeInterviewsDelete), h.DeleteInterview)

	reviews := router.Group("/reviews", authMiddleware.Authenticate())
	reviews.Get("/", authMiddleware.RequireScope(scopes.ScopeReviewsRead), h.ListReviews)
	reviews.Get("/stats", authMiddleware.RequireScope(scopes.ScopeReviewsRead), h.GetReviewStats)
	reviews.Put("/:id", authMiddleware.RequireScope(scopes.ScopeReviewsWrite), h.RerateReview)
}

// ============================================================================
// Queries
// ============================================================================

// ListInterviews supports ?status=PENDING,COMPLETED (effective statuses,
// codes or labels), candidate_id, job_id, interviewer, q, from, to and lang.
func (h *InterviewHandlers) ListInterviews(c *fiber.Ctx) error {
	filter, err := h.parseFilter(c)
	if err != nil {
		return err
	}

	var statuses []interview.Status
	for _, raw := range splitList(c.Query("status")) {
		st, err := interview.ParseStatus(raw)
		if err != nil {
			return err
		}
		statuses = append(statuses, st)
	}

	views, err := h.service.List(c.Context(), interviewsrv.ListQuery{
		Filter:   filter,
		Statuses: statuses,
		Search:   c.Query("q"),
		Lang:     interview.ParseLang(c.Query("lang")),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"interviews": views,
		"total":      len(views),
	})
}

func (h *InterviewHandlers) GetSummary(c *fiber.Ctx) error {
	filter, err := h.parseFilter(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *InterviewHandlers) ListPendingReviews(c *fiber.Ctx) error {
	views, err := h.service.PendingReviews(c.Context(), interview.ParseLang(c.Query("lang")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"interviews": views,
		"total":      len(views),
	})
}

func (h *InterviewHandlers) GetInterview(c *fiber.Ctx) error {
	view, err := h.service.Get(c.Context(), kernel.NewInterviewID(c.Params("id")), interview.ParseLang(c.Query("lang")))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// ============================================================================
// Commands
// ============================================================================

func (h *InterviewHandlers) ScheduleInterview(c *fiber.Ctx) error {
	var req interview.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	view, err := h.service.Schedule(c.Context(), req)
	if err != nil {
		return err
	}

	h.audit(c, "scheduled", view.ID)
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *InterviewHandlers) UpdateInterview(c *fiber.Ctx) error {
	var req interview.EditRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	view, err := h.service.Reschedule(c.Context(), kernel.NewInterviewID(c.Params("id")), req)
	if err != nil {
		return err
	}

	h.audit(c, "updated", view.ID)
	return c.JSON(view)
}

func (h *InterviewHandlers) EndInterview(c *fiber.Ctx) error {
	view, err := h.service.EndEarly(c.Context(), kernel.NewInterviewID(c.Params("id")))
	if err != nil {
		return err
	}

	h.audit(c, "ended early", view.ID)
	return c.JSON(view)
}

func (h *InterviewHandlers) CancelInterview(c *fiber.Ctx) error {
	view, err := h.service.Cancel(c.Context(), kernel.NewInterviewID(c.Params("id")))
	if err != nil {
		return err
	}

	h.audit(c, "cancelled", view.ID)
	return c.JSON(view)
}

func (h *InterviewHandlers) SubmitReview(c *fiber.Ctx) error {
	var req interview.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	id := kernel.NewInterviewID(c.Params("id"))
	review, err := h.service.SubmitReview(c.Context(), id, req)
	if err != nil {
		return err
	}

	h.audit(c, "reviewed", id)
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *InterviewHandlers) DeleteInterview(c *fiber.Ctx) error {
	id := kernel.NewInterviewID(c.Params("id"))
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}

	h.audit(c, "deleted", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Reviews
// ============================================================================

// ListReviews supports ?interview_id=a,b and ?outcome=PASS
func (h *InterviewHandlers) ListReviews(c *fiber.Ctx) error {
	filter, err := parseReviewFilter(c)
	if err != nil {
		return err
	}

	reviews, err := h.service.Reviews(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

func (h *InterviewHandlers) GetReviewStats(c *fiber.Ctx) error {
	filter, err := parseReviewFilter(c)
	if err != nil {
		return err
	}

	stats, err := h.service.ReviewStats(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *InterviewHandlers) RerateReview(c *fiber.Ctx) error {
	var req interview.RerateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	review, err := h.service.Rerate(c.Context(), kernel.NewReviewID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(review)
}

// ============================================================================
// Helpers
// ============================================================================

func (h *InterviewHandlers) parseFilter(c *fiber.Ctx) (interview.ListFilter, error) {
	filter := interview.ListFilter{
		Interviewer: strings.TrimSpace(c.Query("interviewer")),
	}
	if v := c.Query("candidate_id"); v != "" {
		id := kernel.NewCandidateID(v)
		filter.CandidateID = &id
	}
	if v := c.Query("job_id"); v != "" {
		id := kernel.NewJobID(v)
		filter.JobID = &id
	}

	fields := interview.FieldErrors{}
	filter.From = h.parseInstant(c.Query("from"), "from", fields)
	filter.To = h.parseInstant(c.Query("to"), "to", fields)
	if err := fields.Err(); err != nil {
		return interview.ListFilter{}, err
	}
	return filter, nil
}

// parseInstant accepts RFC 3339 or a bare date, read as midnight in h.loc
func (h *InterviewHandlers) parseInstant(raw, field string, fields interview.FieldErrors) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, h.loc); err == nil {
		return &t
	}
	fields.Add(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	return nil
}

func parseReviewFilter(c *fiber.Ctx) (interview.ReviewFilter, error) {
	var filter interview.ReviewFilter
	for _, raw := range splitList(c.Query("interview_id")) {
		filter.InterviewIDs = append(filter.InterviewIDs, kernel.NewInterviewID(raw))
	}
	if raw := c.Query("outcome"); raw != "" {
		outcome, ok := interview.ParseOutcome(raw)
		if !ok {
			return filter, interview.FieldErrors{"outcome": "must be PASS or FAIL"}.Err()
		}
		filter.Outcome = &outcome
	}
	return filter, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func badBody(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
}

func (h *InterviewHandlers) audit(c *fiber.Ctx, action string, id kernel.InterviewID) {
	entry := logx.WithFields(logx.Fields{
		"interview_id": id,
		"action":       action,
	})
	if authContext, ok := auth.GetAuthContext(c); ok {
		entry = entry.WithFields(logx.Fields{"user_id": authContext.UserID})
	}
	entry.Info("Interview changed")
}
