package alert

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/cout970/cronrs/internal/task"
)

// emailSink dispatches via SMTP. TLS if port 465 (implicit TLS); STARTTLS
// if 587; plain otherwise (e.g. localhost:25), per §4.6.
type emailSink struct {
	cfg EmailSinkConfig
}

func NewEmailSink(cfg EmailSinkConfig) Sink { return &emailSink{cfg: cfg} }

func (s *emailSink) Send(rc task.RunContext) error {
	subject := render(s.cfg.Subject, rc)
	body := render(s.cfg.Body, rc)
	from := s.cfg.From
	if from == "" {
		from = s.cfg.SMTPUsername
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, s.cfg.To, subject, body)
	addr := net.JoinHostPort(s.cfg.SMTPServer, fmt.Sprintf("%d", s.cfg.SMTPPort))

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" && s.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPServer)
	}

	to := splitRecipients(s.cfg.To)

	switch s.cfg.SMTPPort {
	case 465:
		return s.sendImplicitTLS(addr, auth, from, to, []byte(msg))
	default:
		// smtp.SendMail negotiates STARTTLS itself when the server offers it
		// (port 587 and most modern relays); plain text otherwise (port 25,
		// typically localhost-only).
		return smtp.SendMail(addr, auth, from, to, []byte(msg))
	}
}

func (s *emailSink) sendImplicitTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.SMTPServer})
	if err != nil {
		return fmt.Errorf("email: tls dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.SMTPServer)
	if err != nil {
		return fmt.Errorf("email: smtp client: %w", err)
	}
	defer c.Close()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("email: auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("email: mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("email: rcpt to %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("email: data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("email: write: %w", err)
	}
	return w.Close()
}

func splitRecipients(to string) []string {
	parts := strings.Split(to, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
