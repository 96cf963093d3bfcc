// Package mailer sends transactional email over SMTP. When no SMTP host is
// configured the mailer degrades to a no-op so local development never needs
// a mail server.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/allisson/petadopt/internal/config"
	apperrors "github.com/allisson/petadopt/internal/errors"
)

// Mailer defines the outbound email operations used by the auth flows.
type Mailer interface {
	// SendWelcome sends the post-registration welcome email.
	SendWelcome(ctx context.Context, to string, username string) error

	// SendPasswordRecovery delivers a recovered or regenerated password.
	SendPasswordRecovery(ctx context.Context, to string, password string) error

	// Enabled reports whether email delivery is configured.
	Enabled() bool
}

// NewMailer creates a Mailer from configuration. Missing host or sender
// address disables delivery.
func NewMailer(cfg *config.Config, logger *slog.Logger) Mailer {
	host := strings.TrimSpace(cfg.SMTPHost)
	from := strings.TrimSpace(cfg.SMTPFrom)
	if host == "" || from == "" {
		logger.Info("mailer disabled, smtp host or sender missing")
		return &noopMailer{}
	}

	security := strings.ToLower(strings.TrimSpace(cfg.SMTPSecurity))
	if security == "" {
		security = "starttls"
	}
	port := strings.TrimSpace(cfg.SMTPPort)
	if port == "" {
		port = "587"
	}

	logger.Info("mailer enabled",
		slog.String("host", host),
		slog.String("port", port),
		slog.String("security", security),
	)

	return &smtpMailer{
		host:     host,
		port:     port,
		user:     strings.TrimSpace(cfg.SMTPUser),
		password: cfg.SMTPPassword,
		from:     from,
		security: security,
		logger:   logger,
	}
}

// noopMailer discards all messages.
type noopMailer struct{}

func (n *noopMailer) SendWelcome(context.Context, string, string) error          { return nil }
func (n *noopMailer) SendPasswordRecovery(context.Context, string, string) error { return nil }
func (n *noopMailer) Enabled() bool                                              { return false }

// smtpMailer implements Mailer over net/smtp with optional STARTTLS or
// implicit TLS.
type smtpMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	security string
	logger   *slog.Logger
}

func (m *smtpMailer) Enabled() bool {
	return true
}

// SendWelcome sends the post-registration welcome email.
func (m *smtpMailer) SendWelcome(ctx context.Context, to string, username string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome to PetAdopt! Your account has been created.\n\n"+
			"You can now browse pets looking for a home and submit adoption requests.\n",
		username,
	)
	return m.send(ctx, to, "Welcome to PetAdopt", body)
}

// SendPasswordRecovery delivers a recovered or regenerated password.
func (m *smtpMailer) SendPasswordRecovery(ctx context.Context, to string, password string) error {
	body := fmt.Sprintf(
		"You requested a password recovery.\n\nYour password: %s\n\n"+
			"If you did not request this, contact support immediately.\n",
		password,
	)
	return m.send(ctx, to, "Your PetAdopt password", body)
}

func (m *smtpMailer) send(ctx context.Context, to string, subject string, body string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "mail delivery canceled")
	}

	msg := message(m.from, to, subject, body)

	var err error
	switch m.security {
	case "ssl", "smtps":
		err = m.sendSSL(to, msg)
	case "none":
		err = smtp.SendMail(m.addr(), nil, m.from, []string{to}, msg)
	default:
		err = m.sendStartTLS(to, msg)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrUnavailable, "failed to send email: "+err.Error())
	}
	return nil
}

func (m *smtpMailer) sendStartTLS(to string, msg []byte) error {
	addr := m.addr()

	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	if m.user != "" && m.password != "" {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	return m.transmit(client, to, msg)
}

func (m *smtpMailer) sendSSL(to string, msg []byte) error {
	conn, err := tls.Dial("tcp", m.addr(), &tls.Config{ServerName: m.host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = client.Close() }()

	if m.user != "" && m.password != "" {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	return m.transmit(client, to, msg)
}

func (m *smtpMailer) transmit(client *smtp.Client, to string, msg []byte) error {
	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *smtpMailer) addr() string {
	return net.JoinHostPort(m.host, m.port)
}

func message(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")
	return buf.Bytes()
}
