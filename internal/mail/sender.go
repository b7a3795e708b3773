package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over a plain SMTP connection.
type SMTPSender struct {
	addr    string
	from    string
	timeout time.Duration
}

// NewSMTPSender creates a sender for the given server address ("host:port").
func NewSMTPSender(addr, from string, timeout time.Duration) *SMTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPSender{addr: addr, from: from, timeout: timeout}
}

// Send sends the message, bounded by the sender timeout and the context
// deadline, whichever hits first.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn, err := net.DialTimeout("tcp", s.addr, time.Until(deadline))
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	host := s.addr
	if h, _, splitErr := net.SplitHostPort(s.addr); splitErr == nil {
		host = h
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(formatMessage(s.from, msg))); err != nil {
		w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}
	return client.Quit()
}

func formatMessage(from string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}

// LogSender writes messages to the log instead of delivering them. Used when
// email delivery is disabled.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and reports success.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email delivery disabled, logging message",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
