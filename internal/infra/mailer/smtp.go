// Package mailer delivers alert emails through an SMTP relay.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/pkg/errors"
)

// Config holds everything one send needs. Username and Password are
// optional; the session authenticates only when both are set.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

// SMTPMailer sends plaintext mail, one SMTP session per call.
type SMTPMailer struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewSMTPMailer wires up the mailer.
func NewSMTPMailer(cfg Config, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger.With("component", "mailer.smtp"),
		now:    time.Now,
	}
}

// Send delivers one message to the configured recipient. STARTTLS is
// attempted only when the server advertises it, and a failed negotiation
// falls back to the plain connection rather than aborting the send.
func (m *SMTPMailer) Send(ctx context.Context, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.From == "" || m.cfg.To == "" {
		return apperrors.Wrap("config_missing", "SMTP_HOST, EMAIL_FROM and EMAIL_TO must be set in environment", nil)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	dialer := net.Dialer{Timeout: m.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return apperrors.Wrap("send_failed", "connect to smtp server", err)
	}
	defer conn.Close()

	// One absolute deadline covers the whole session.
	if m.cfg.Timeout > 0 {
		if err := conn.SetDeadline(m.now().Add(m.cfg.Timeout)); err != nil {
			return apperrors.Wrap("send_failed", "set smtp session deadline", err)
		}
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return apperrors.Wrap("send_failed", "smtp handshake", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			m.logger.Warn("starttls negotiation failed, continuing on plain connection", "error", err)
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return apperrors.Wrap("send_failed", "smtp auth", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return apperrors.Wrap("send_failed", "smtp mail from", err)
	}
	if err := client.Rcpt(m.cfg.To); err != nil {
		return apperrors.Wrap("send_failed", "smtp rcpt to", err)
	}

	writer, err := client.Data()
	if err != nil {
		return apperrors.Wrap("send_failed", "smtp data", err)
	}
	if _, err := writer.Write(m.buildMessage(subject, body)); err != nil {
		writer.Close()
		return apperrors.Wrap("send_failed", "write message", err)
	}
	if err := writer.Close(); err != nil {
		return apperrors.Wrap("send_failed", "finish message", err)
	}

	// The message is accepted once DATA returns 250; a broken QUIT is not
	// worth failing the run over.
	if err := client.Quit(); err != nil {
		m.logger.Warn("smtp quit failed after delivery", "error", err)
	}

	m.logger.Info("alert email sent", "to", m.cfg.To)
	return nil
}

func (m *SMTPMailer) buildMessage(subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), m.cfg.Host)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
