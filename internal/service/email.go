package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// Mailer delivers account emails. Delivery errors are returned so callers can
// log them; none of the auth flows fail because of them.
type Mailer interface {
	SendConfirmationEmail(email, token string) error
	SendRecoveryEmail(email, token string) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendConfirmationEmail(email, token string) error {
	confirmURL := fmt.Sprintf("%s/auth/confirm/%s", s.appURL, url.PathEscape(token))
	subject, body := confirmationEmailTemplate(confirmURL, s.appName)
	return s.send("confirmation", email, subject, body, confirmURL)
}

func (s *EmailService) SendRecoveryEmail(email, token string) error {
	resetURL := fmt.Sprintf("%s/auth/recovered/%s", s.appURL, url.PathEscape(token))
	subject, body := recoveryEmailTemplate(resetURL, s.appName)
	return s.send("recovery", email, subject, body, resetURL)
}

func (s *EmailService) send(kind, to, subject, body, link string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject, "url", link)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
