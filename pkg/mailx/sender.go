// Package mailx sends transactional email: interview invitations and
// reminders.
package mailx

import (
	"context"
	"io"
	"strings"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"gopkg.in/gomail.v2"
)

// Message is one outgoing email
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers through an SMTP relay using gomail
type SMTPSender struct {
	from     string
	fromName string
	sender   gomail.Sender
}

// NewSMTPSender dials the relay once per message, so an idle connection is
// never held between sends.
func NewSMTPSender(host string, port int, username, password, from, fromName string) *SMTPSender {
	dialer := gomail.NewDialer(host, port, username, password)
	send := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		sc, err := dialer.Dial()
		if err != nil {
			return err
		}
		defer sc.Close()
		return sc.Send(from, to, msg)
	})
	return NewSenderWith(send, from, fromName)
}

// NewSenderWith wraps any gomail.Sender
func NewSenderWith(sender gomail.Sender, from, fromName string) *SMTPSender {
	return &SMTPSender{
		from:     from,
		fromName: fromName,
		sender:   sender,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return errx.New("email recipient is empty", errx.TypeValidation)
	}

	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := gomail.Send(s.sender, m); err != nil {
		return errx.Wrap(err, "failed to send email", errx.TypeExternal).
			WithDetail("to", msg.To)
	}
	return nil
}

// ConsoleSender logs messages instead of sending them. Used when SMTP is
// not configured.
type ConsoleSender struct{}

func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{}
}

func (ConsoleSender) Send(_ context.Context, msg Message) error {
	logx.WithFields(logx.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("📧 Email (console sender)")
	logx.Debug(msg.HTMLBody)
	return nil
}
