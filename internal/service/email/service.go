package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	// From email address
	FromEmail string
	FromName  string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// Template configuration
	BaseURL string // Base URL for links in emails
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@comanda.app",
		FromName:   "Comanda",
		SMTPHost:   "localhost",
		SMTPPort:   1025, // Mailhog default port
		SMTPUseTLS: false,
		BaseURL:    "http://localhost:3000",
	}
}

// Service implements the EmailService interface
type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

// NewService creates a new email service
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
		log:       log,
	}

	// Initialize provider
	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	// Load templates
	s.loadTemplates()

	return s, nil
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	s.templates["welcome"] = template.Must(template.New("welcome").Parse(welcomeTemplate))
	s.templates["receipt"] = template.Must(template.New("receipt").Parse(receiptTemplate))
	s.templates["order_ready"] = template.Must(template.New("order_ready").Parse(orderReadyTemplate))
	s.templates["password_reset"] = template.Must(template.New("password_reset").Parse(passwordResetTemplate))
}

// Send sends a generic email
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("Sending email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, body, false); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendHTML sends an HTML email
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Info("Sending HTML email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, htmlBody, true); err != nil {
		s.log.Error("Failed to send HTML email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// SendTemplate sends an email using a template
func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	// Add base URL to data
	if data == nil {
		data = make(map[string]interface{})
	}
	data["BaseURL"] = s.config.BaseURL

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject, ok := data["Subject"].(string)
	if !ok {
		subject = "Notification from Comanda"
	}

	return s.SendHTML(ctx, to, subject, buf.String())
}

// SendWelcome sends a welcome email to a new user
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	data := map[string]interface{}{
		"Subject":  "Welcome to Comanda!",
		"UserName": user.Name,
		"Email":    user.Email,
	}

	return s.SendTemplate(ctx, user.Email, "welcome", data)
}

// SendReceipt sends the order receipt after the order is closed.
func (s *Service) SendReceipt(ctx context.Context, toEmail string, order *domain.Order, payment *domain.Payment) error {
	type receiptLine struct {
		Name     string
		Quantity int
		Total    string
	}

	var lines []receiptLine
	for _, item := range order.Items {
		lines = append(lines, receiptLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    fmt.Sprintf("%.2f", float64(item.Quantity)*item.UnitPrice),
		})
	}

	method := ""
	if payment != nil {
		method = string(payment.Method)
	}

	data := map[string]interface{}{
		"Subject":     fmt.Sprintf("Receipt for order #%d", order.Number),
		"OrderNumber": order.Number,
		"Lines":       lines,
		"Subtotal":    fmt.Sprintf("%.2f", order.Subtotal),
		"ServiceFee":  fmt.Sprintf("%.2f", order.ServiceFee),
		"DeliveryFee": fmt.Sprintf("%.2f", order.DeliveryFee),
		"Total":       fmt.Sprintf("%.2f", order.Total),
		"Currency":    order.Currency,
		"Method":      method,
		"PlacedAt":    order.PlacedAt.Format("2006-01-02 15:04:05"),
	}

	return s.SendTemplate(ctx, toEmail, "receipt", data)
}

// SendOrderReady tells a takeout or delivery customer the kitchen is done.
func (s *Service) SendOrderReady(ctx context.Context, toEmail string, order *domain.Order) error {
	data := map[string]interface{}{
		"Subject":      fmt.Sprintf("Order #%d is ready", order.Number),
		"OrderNumber":  order.Number,
		"CustomerName": order.CustomerName,
		"OrderType":    string(order.Type),
	}

	return s.SendTemplate(ctx, toEmail, "order_ready", data)
}

// SendPasswordReset sends a password reset email
func (s *Service) SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, resetToken)

	data := map[string]interface{}{
		"Subject":  "Reset Your Password",
		"UserName": user.Name,
		"ResetURL": resetURL,
	}

	return s.SendTemplate(ctx, user.Email, "password_reset", data)
}
