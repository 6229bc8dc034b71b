package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"sync"
	"time"

	"bookingdesk/internal/shared/config"
	"bookingdesk/pkg/logger"
)

// EmailService delivers one rendered notification
type EmailService interface {
	Send(ctx context.Context, notification *EmailNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// NewSMTPConfig maps the application email settings
func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    cfg.UseTLS,
	}
}

// SMTPEmailService sends mail through an SMTP relay
type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(cfg *SMTPConfig, log *logger.Logger) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: cfg, log: logger.OrDefault(log).WithComponent("smtp")}, nil
}

func validateSMTPConfig(cfg *SMTPConfig) error {
	if cfg == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if cfg.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (s *SMTPEmailService) Send(ctx context.Context, notification *EmailNotification) error {
	message, err := BuildMessage(s.config.FromName, s.config.FromEmail, notification, time.Now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, notification.RecipientEmail, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.RecipientEmail}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("email sent", "notification_id", notification.ID.String(), "to", notification.RecipientEmail)
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

// BuildMessage renders a multipart/mixed message: a text/html alternative
// part followed by the optional attachment.
func BuildMessage(fromName, fromEmail string, n *EmailNotification, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mixed := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + mime.QEncoding.Encode("utf-8", fromName) + " <" + fromEmail + ">",
		"To: " + n.RecipientEmail,
		"Subject: " + mime.QEncoding.Encode("utf-8", n.Subject),
		"Date: " + now.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=" + mixed.Boundary(),
	}
	for _, h := range headers {
		buf.WriteString(h + "\r\n")
	}
	buf.WriteString("\r\n")

	var alt bytes.Buffer
	altWriter := multipart.NewWriter(&alt)
	for _, part := range []struct{ contentType, body string }{
		{"text/plain; charset=UTF-8", n.TextBody},
		{"text/html; charset=UTF-8", n.HTMLBody},
	} {
		if part.body == "" {
			continue
		}
		w, err := altWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := altWriter.Close(); err != nil {
		return nil, err
	}

	altPart, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + altWriter.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	if _, err := altPart.Write(alt.Bytes()); err != nil {
		return nil, err
	}

	if n.HasAttachment() {
		contentType := n.Attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w, err := mixed.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": n.Attachment.Filename})},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64Lines(w, n.Attachment.Data); err != nil {
			return nil, err
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64Lines wraps encoded output at 76 columns as RFC 2045 requires
func writeBase64Lines(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := w.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}

// LogEmailService logs mail instead of sending it; used when SMTP is not configured
type LogEmailService struct {
	log  *logger.Logger
	mu   sync.Mutex
	sent []*EmailNotification
}

func NewLogEmailService(log *logger.Logger) *LogEmailService {
	return &LogEmailService{log: logger.OrDefault(log).WithComponent("mail-log")}
}

func (s *LogEmailService) Send(ctx context.Context, notification *EmailNotification) error {
	s.mu.Lock()
	s.sent = append(s.sent, notification)
	s.mu.Unlock()

	attachment := ""
	if notification.HasAttachment() {
		attachment = notification.Attachment.Filename
	}
	s.log.InfoContext(ctx, "email (not sent, SMTP disabled)",
		"notification_id", notification.ID.String(),
		"type", string(notification.Type),
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
		"attachment", attachment,
	)
	return nil
}

// Sent returns a copy of everything logged so far
func (s *LogEmailService) Sent() []*EmailNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*EmailNotification, len(s.sent))
	copy(out, s.sent)
	return out
}
