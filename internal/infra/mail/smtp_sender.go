package mail

import (
	"context"
	"os"
	"strings"

	"compliance_notifier/internal/domain/email"

	"gopkg.in/gomail.v2"
)

// SMTPSender implements the email.Sender interface on top of gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send dispatches one composed notification. Failures are classified so the
// pipeline can tell a fatal condition (missing attachment, unreachable
// client) from a transient one (rate limiting).
func (s *SMTPSender) Send(ctx context.Context, msg email.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if msg.AttachmentPath != "" {
		if _, err := os.Stat(msg.AttachmentPath); err != nil {
			return email.NewSendError(email.ErrAttachmentNotFound, err)
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	if msg.AttachmentPath != "" {
		m.Attach(msg.AttachmentPath)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return email.NewSendError(classify(err), err)
	}
	return nil
}

// classify maps an SMTP failure to a dispatch error kind. 421 and the 45x
// family are the server telling us to slow down; everything else means the
// client is unusable for this run.
func classify(err error) email.ErrorKind {
	text := err.Error()
	for _, marker := range []string{"421", "450", "451", "452", "too many", "rate"} {
		if strings.Contains(text, marker) {
			return email.ErrRateLimited
		}
	}
	return email.ErrClientUnavailable
}
