package auth

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerificationEmail(to, link string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (m SMTPMailer) SendVerificationEmail(to, link string) error {
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)

	subject := "Verify Your Account"
	body := fmt.Sprintf("Click the following link to verify your account:\n\n%s", link)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer writes the link to the log instead of sending mail. Used when SMTP is not configured.
type LogMailer struct {
	Log *slog.Logger
}

func (m LogMailer) SendVerificationEmail(to, link string) error {
	m.Log.Info("verification email not sent, SMTP disabled", "to", to, "link", link)
	return nil
}
