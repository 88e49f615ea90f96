package mailx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/ptrx"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captured struct {
	from string
	to   []string
	raw  string
}

func capturingSender(out *[]captured, fail error) gomail.Sender {
	return gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		if fail != nil {
			return fail
		}
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		*out = append(*out, captured{from: from, to: to, raw: buf.String()})
		return nil
	})
}

func TestSMTPSender_Send(t *testing.T) {
	var sent []captured
	s := NewSenderWith(capturingSender(&sent, nil), "hr@example.com", "HR Team")

	err := s.Send(context.Background(), Message{To: "a@example.com", Subject: "Hello", HTMLBody: "<p>hi</p>"})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "hr@example.com", sent[0].from)
	assert.Equal(t, []string{"a@example.com"}, sent[0].to)
	assert.Contains(t, sent[0].raw, "Subject: Hello")
	assert.Contains(t, sent[0].raw, "<p>hi</p>")
}

func TestSMTPSender_Errors(t *testing.T) {
	var sent []captured

	s := NewSenderWith(capturingSender(&sent, errors.New("relay down")), "hr@example.com", "")
	err := s.Send(context.Background(), Message{To: "a@example.com"})
	assert.True(t, errx.IsType(err, errx.TypeExternal))

	err = s.Send(context.Background(), Message{To: "  "})
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@example.com"}), context.Canceled)
}

type recordingSender struct {
	msgs []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func TestInterviewNotifier(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)
	iv := interview.Interview{
		ID:              "iv-1",
		Round:           "Vòng 2",
		ScheduledStart:  time.Date(2025, 3, 10, 2, 30, 0, 0, time.UTC),
		InterviewerName: "Lê Văn C",
		Format:          interview.FormatOnSite,
		Location:        ptrx.String("Tầng 3 <A>"),
	}
	who := interview.Participant{CandidateID: "cand-1", FullName: "Nguyễn Văn A", Email: "a@example.com", JobTitle: "Backend Engineer"}

	rec := &recordingSender{}
	n := NewInterviewNotifier(rec, ict)

	require.NoError(t, n.InterviewScheduled(context.Background(), iv, who))
	require.NoError(t, n.InterviewReminder(context.Background(), iv, who))
	require.Len(t, rec.msgs, 2)

	invite := rec.msgs[0]
	assert.Equal(t, "a@example.com", invite.To)
	assert.Equal(t, "Thư mời phỏng vấn - Backend Engineer", invite.Subject)
	assert.Contains(t, invite.HTMLBody, "Nguyễn Văn A")
	assert.Contains(t, invite.HTMLBody, "09:30 10/03/2025")
	assert.Contains(t, invite.HTMLBody, "60 phút")
	assert.Contains(t, invite.HTMLBody, "Trực tiếp")
	assert.Contains(t, invite.HTMLBody, "Tầng 3 &lt;A&gt;")

	assert.Equal(t, "Nhắc lịch phỏng vấn - Backend Engineer", rec.msgs[1].Subject)

	who.Email = ""
	err := n.InterviewScheduled(context.Background(), iv, who)
	assert.True(t, errx.IsType(err, errx.TypeValidation))
	assert.Len(t, rec.msgs, 2)
}
