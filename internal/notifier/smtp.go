// Package notifier sends price drop alert emails over SMTP.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jonesrussell/pricewatch/internal/config"
)

// ErrNotConfigured is returned when SMTP credentials are missing. The price
// check job treats it like any other notification failure: logged, never fatal.
var ErrNotConfigured = errors.New("smtp credentials not configured")

// Notifier sends a threshold alert to a single recipient.
type Notifier interface {
	Alert(ctx context.Context, recipient, productName string, currentPrice, targetPrice float64) error
}

// sendMailFunc matches smtp.SendMail; swapped out in tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier delivers alerts through a fixed authenticated mail relay.
// smtp.SendMail upgrades the session with STARTTLS when the relay supports it,
// which the standard submission port (587) does.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	sendMail sendMailFunc
}

// New creates an SMTPNotifier for the given relay configuration.
func New(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:      cfg,
		sendMail: smtp.SendMail,
	}
}

// Alert composes and sends one plaintext price drop message.
func (n *SMTPNotifier) Alert(
	ctx context.Context,
	recipient, productName string,
	currentPrice, targetPrice float64,
) error {
	if n.cfg.Username == "" || n.cfg.Password == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := n.cfg.From
	if from == "" {
		from = n.cfg.Username
	}

	msg := buildMessage(from, recipient, productName, currentPrice, targetPrice)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := n.sendMail(addr, auth, from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("send alert to %s: %w", recipient, err)
	}

	return nil
}

// buildMessage renders the alert as a complete RFC 5322 message.
func buildMessage(from, to, productName string, currentPrice, targetPrice float64) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: PRICE DROP: %s\r\n", productName)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b,
		"Price Drop Alert! The price for %s is now %.2f, at or below your target of %.2f.\r\n",
		productName, currentPrice, targetPrice,
	)
	return []byte(b.String())
}
