package notifications

import (
	"fmt"
	"net/smtp"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// SMTPNotifier implements domain.Notifier over email
type SMTPNotifier struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPNotifier creates a new SMTP email notifier
func NewSMTPNotifier(host string, port int, username, password, from string) domain.Notifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

// Send implements domain.Notifier
func (s *SMTPNotifier) Send(destination, code string, kind domain.TemplateKind) error {
	subject, body := emailTemplate(code, kind)

	// If the host is not configured, log instead of sending
	if s.addr == ":0" {
		fmt.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s\n", destination, subject, body)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, destination, subject, body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{destination}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func emailTemplate(code string, kind domain.TemplateKind) (subject, body string) {
	if kind == domain.TemplateNewAccount {
		subject = "Create your Holocron account"
		body = fmt.Sprintf(
			"Welcome to Holocron!\n\nUse this code to finish creating your account: %s\n\nThe code expires in 2 minutes. If you did not request it, you can ignore this email.",
			code)
		return subject, body
	}

	subject = "Your Holocron login code"
	body = fmt.Sprintf(
		"Use this code to sign in to Holocron: %s\n\nThe code expires in 2 minutes. If you did not request it, someone may have typed your email by mistake.",
		code)
	return subject, body
}
