package notify

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"ares_bot/pkg/logger"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = "465"
)

// EmailCredentials — настройки читаются на каждую отправку, чтобы правки пользователя
// применялись без перезапуска.
type EmailCredentials interface {
	Email() (address, appPassword string, enabled bool)
}

type sendFunc func(address, password string, msg []byte) error

// Email шлёт письмо самому себе через SMTP over TLS.
type Email struct {
	creds EmailCredentials
	send  sendFunc
}

func NewEmail(creds EmailCredentials) *Email {
	return &Email{creds: creds, send: sendSMTPS}
}

func (e *Email) Notify(subject, body string) {
	address, password, enabled := e.creds.Email()
	if !enabled || password == "" || address == "" {
		return
	}
	if err := e.send(address, password, buildMessage(address, subject, body)); err != nil {
		logger.Warn("[NOTIFY] email: %v", err)
	}
}

func buildMessage(address, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", address)
	fmt.Fprintf(&b, "To: %s\r\n", address)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func sendSMTPS(address, password string, msg []byte) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(smtpHost, smtpPort), &tls.Config{ServerName: smtpHost})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	if err := c.Auth(smtp.PlainAuth("", address, password, smtpHost)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(address); err != nil {
		return err
	}
	if err := c.Rcpt(address); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
