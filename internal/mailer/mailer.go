// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/wneessen/go-mail"

	"finview/internal/config"
	"finview/internal/logger"
	"finview/internal/services"
)

const otpSubject = "FinView password reset code"

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <p>Hi {{.Name}},</p>
  <p>Use the code below to reset your FinView password:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.OTP}}</p>
  <p>This code expires in {{.Minutes}} minutes. If you did not request a reset, you can ignore this email.</p>
</body>
</html>`))

type otpData struct {
	Name    string
	OTP     string
	Minutes int
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer from the SMTP settings in cfg.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

// SendOTP emails a password reset code.
func (m *SMTPMailer) SendOTP(ctx context.Context, to, name, otp string, expiresIn time.Duration) error {
	msg, err := m.otpMessage(to, name, otp, expiresIn)
	if err != nil {
		return err
	}

	client, err := m.client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTimeout(15 * time.Second),
	}
	if m.port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return client, nil
}

func (m *SMTPMailer) otpMessage(to, name, otp string, expiresIn time.Duration) (*mail.Msg, error) {
	if name == "" {
		name = "there"
	}

	var body bytes.Buffer
	data := otpData{Name: name, OTP: otp, Minutes: int(expiresIn.Minutes())}
	if err := otpTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render otp email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(otpSubject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())
	msg.AddAlternativeString(mail.TypeTextPlain,
		fmt.Sprintf("Your FinView password reset code is %s. It expires in %d minutes.", otp, data.Minutes))
	return msg, nil
}

// ErrNotConfigured is returned by the fallback mailer in production.
var ErrNotConfigured = errors.New("mailer: SMTP is not configured")

// LogMailer stands in for SMTP when no credentials are set. Outside
// production it logs the code so the reset flow can be exercised locally.
type LogMailer struct {
	production bool
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(production bool) *LogMailer {
	return &LogMailer{production: production}
}

// SendOTP logs the code, or fails in production.
func (m *LogMailer) SendOTP(_ context.Context, to, _, otp string, expiresIn time.Duration) error {
	if m.production {
		return ErrNotConfigured
	}
	logger.Get().Warnw("SMTP not configured, password reset code logged instead of emailed",
		"to", to, "otp", otp, "expires_in", expiresIn.String())
	return nil
}

// New returns an SMTPMailer when SMTP credentials are configured and a
// LogMailer otherwise.
func New(cfg *config.Config) services.Mailer {
	if cfg.MailConfigured() {
		return NewSMTPMailer(cfg)
	}
	return NewLogMailer(cfg.IsProduction())
}
