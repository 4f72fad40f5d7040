package mailer

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single email. Implementations must be safe for
// concurrent use. Delivery failures never propagate past the caller's
// logging; see the notifications package.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends through a plain SMTP relay via gomail.
type SMTPSender struct {
	host    string
	port    int
	user    string
	pass    string
	from    string
	timeout time.Duration
}

func NewSMTPSenderFromEnv() *SMTPSender {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	timeout, _ := strconv.Atoi(os.Getenv("SMTP_TIMEOUT_SECONDS"))
	if timeout == 0 {
		timeout = 10
	}
	return &SMTPSender{
		host:    os.Getenv("SMTP_HOST"),
		port:    port,
		user:    os.Getenv("SMTP_USERNAME"),
		pass:    os.Getenv("SMTP_PASSWORD"),
		from:    os.Getenv("SMTP_FROM"),
		timeout: time.Duration(timeout) * time.Second,
	}
}

var errSendTimeout = errors.New("smtp send timed out")

// Send dials and sends one message, bounded by the configured timeout.
// gomail has no context support, so the dial-and-send runs in its own
// goroutine and is abandoned on timeout.
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(s.timeout):
		return errSendTimeout
	}
}
