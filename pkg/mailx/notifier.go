package mailx

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/ptrx"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
)

const whenLayout = "15:04 02/01/2006"

// InterviewNotifier implements interview.Notifier over a Sender
type InterviewNotifier struct {
	sender Sender
	loc    *time.Location
}

func NewInterviewNotifier(sender Sender, loc *time.Location) *InterviewNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &InterviewNotifier{sender: sender, loc: loc}
}

func (n *InterviewNotifier) InterviewScheduled(ctx context.Context, iv interview.Interview, who interview.Participant) error {
	return n.send(ctx, invitationTemplate, iv, who)
}

func (n *InterviewNotifier) InterviewReminder(ctx context.Context, iv interview.Interview, who interview.Participant) error {
	return n.send(ctx, reminderTemplate, iv, who)
}

func (n *InterviewNotifier) send(ctx context.Context, tpl mailTemplate, iv interview.Interview, who interview.Participant) error {
	if who.Email == "" {
		return errx.New("candidate has no email address", errx.TypeValidation).
			WithDetail("candidate_id", who.CandidateID.String())
	}

	subject, body, err := tpl.render(n.data(iv, who))
	if err != nil {
		return errx.Wrap(err, "failed to render email", errx.TypeInternal)
	}

	return n.sender.Send(ctx, Message{
		To:       who.Email,
		Subject:  subject,
		HTMLBody: body,
	})
}

func (n *InterviewNotifier) data(iv interview.Interview, who interview.Participant) InterviewMail {
	duration := iv.DurationMinutes
	if duration <= 0 {
		duration = interview.DefaultDurationMinutes
	}
	return InterviewMail{
		CandidateName: who.FullName,
		JobTitle:      who.JobTitle,
		Round:         iv.Round,
		When:          iv.ScheduledStart.In(n.loc).Format(whenLayout),
		Duration:      duration,
		Format:        iv.Format.Label(),
		Location:      ptrx.StringValue(iv.Location),
		Interviewer:   iv.InterviewerName,
		Notes:         ptrx.StringValue(iv.Notes),
	}
}
