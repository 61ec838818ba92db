package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	logger       *log.Logger
}

func NewEmailService() *EmailService {
	return &EmailService{
		client:       resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:         os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName:     os.Getenv("EMAIL_FROM_NAME"),
		templatesDir: "pkg/email/templates",
		logger:       log.New(os.Stdout, "EMAIL: ", log.LstdFlags),
	}
}

func (s *EmailService) SendWelcomeEmail(email, fullName string) error {
	s.logger.Printf("Sending welcome email to: %s (%s)", email, fullName)

	templateData := map[string]interface{}{
		"FullName": fullName,
		"Email":    email,
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("welcome.html", templateData)
	if err != nil {
		return fmt.Errorf("failed to parse welcome template: %w", err)
	}

	return s.send(email, "Bienvenido a SiteSnap", html)
}

func (s *EmailService) SendPasswordResetEmail(email, resetToken string) error {
	s.logger.Printf("Sending password reset email to: %s", email)

	templateData := map[string]interface{}{
		"ResetURL": fmt.Sprintf("%s/reset-password?token=%s", os.Getenv("APP_URL"), resetToken),
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("reset-password.html", templateData)
	if err != nil {
		return fmt.Errorf("failed to parse reset template: %w", err)
	}

	return s.send(email, "Restablece tu contraseña", html)
}

func (s *EmailService) send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.from),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		s.logger.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}

func (s *EmailService) parseTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join(s.templatesDir, name))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
