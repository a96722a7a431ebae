package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/finance-service/internal/config"
)

// SMTPTransport dials the relay, upgrades with STARTTLS and authenticates.
type SMTPTransport struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPTransport builds a transport for cfg.
func NewSMTPTransport(cfg config.SMTPConfig, logger *zap.Logger) *SMTPTransport {
	return &SMTPTransport{cfg: cfg, logger: logger}
}

// Connect establishes a session ready for MAIL FROM.
func (t *SMTPTransport) Connect(ctx context.Context) (Client, error) {
	addr := net.JoinHostPort(t.cfg.Host, t.cfg.Port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, errors.New("smtp server does not support STARTTLS")
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("start tls: %w", err)
	}

	if t.cfg.User != "" {
		auth := smtp.PlainAuth("", t.cfg.User, t.cfg.Password, t.cfg.Host)
		if err := client.Auth(auth); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("smtp auth: %w", err)
		}
	}
	return client, nil
}

// SMTPSender sends each message over a fresh transport session.
type SMTPSender struct {
	transport Transport
	from      string
	logger    *zap.Logger
}

// NewSMTPSender constructs a sender.
func NewSMTPSender(transport Transport, from string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{transport: transport, from: from, logger: logger}
}

// Send delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.logger.Error("smtp connect failed", zap.Error(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write([]byte(s.render(msg))); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}

	s.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) render(msg Message) string {
	return strings.Join([]string{
		"From: " + s.from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		msg.Body,
	}, "\r\n")
}

// LogSender records messages in the log instead of sending them.
// Used when no SMTP host is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not sent, no smtp relay configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
