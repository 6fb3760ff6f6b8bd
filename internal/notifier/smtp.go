// internal/notifier/smtp.go
package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"careers-intake/internal/common/config"
	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
)

// SMTPNotifier delivers notifications over SMTP, with STARTTLS and plain
// auth when configured.
type SMTPNotifier struct {
	cfg    config.NotificationConfig
	logger logger.Logger
}

func NewSMTPNotifier(cfg config.NotificationConfig, log logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier", "provider": "smtp"}),
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if !isValidEmail(msg.To) {
		return errors.NewDeliveryError(errors.ErrCodeNotificationSendFailed,
			fmt.Errorf("invalid recipient address: %s", msg.To))
	}
	if !isValidEmail(msg.From) {
		return errors.NewDeliveryError(errors.ErrCodeNotificationSendFailed,
			fmt.Errorf("invalid sender address: %s", msg.From))
	}

	payload := buildMIMEMessage(msg)

	if err := n.sendSMTP(ctx, msg.From, msg.To, payload); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewDeliveryError(errors.ErrCodeNotificationTimeout, err)
		}
		if stdErr, ok := err.(*errors.StandardError); ok {
			return stdErr
		}
		return errors.NewDeliveryError(errors.ErrCodeNotificationSendFailed, err)
	}

	n.logger.Info("notification sent", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})

	return nil
}

func (n *SMTPNotifier) sendSMTP(ctx context.Context, from, to string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTP.Host, n.cfg.SMTP.Port)

	var auth smtp.Auth
	if n.cfg.SMTP.Username != "" && n.cfg.SMTP.Password != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTP.Username, n.cfg.SMTP.Password, n.cfg.SMTP.Host)
	}

	if n.cfg.SMTP.UseTLS {
		return n.sendWithTLS(addr, auth, from, []string{to}, payload)
	}

	return smtp.SendMail(addr, auth, from, []string{to}, payload)
}

func (n *SMTPNotifier) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: n.cfg.SMTP.Host,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			// The auth step failed distinctly from transport, so the error
			// kind is decided here, not inferred from message text later.
			return errors.NewDeliveryError(errors.ErrCodeNotificationAuthFailed,
				fmt.Errorf("SMTP authentication failed: %w", err))
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// TestConnection dials the configured server and negotiates TLS, without
// sending anything. Used by startup checks.
func (n *SMTPNotifier) TestConnection(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.SMTP.Host, n.cfg.SMTP.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if n.cfg.SMTP.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: n.cfg.SMTP.Host,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	return client.Quit()
}
