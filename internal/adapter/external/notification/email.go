package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
	"github.com/seu-repo/comanda/internal/service/email"
)

// EmailAdapter bridges the notification layer to the email service
type EmailAdapter struct {
	svc *email.Service
	log *zap.Logger
}

// NewEmailAdapter creates an email adapter wrapping the email service
func NewEmailAdapter(cfg *email.Config, log *zap.Logger) (*EmailAdapter, error) {
	svc, err := email.NewService(cfg, log)
	if err != nil {
		return nil, err
	}
	return &EmailAdapter{svc: svc, log: log}, nil
}

// Ensure EmailAdapter implements ports.EmailService
var _ ports.EmailService = (*EmailAdapter)(nil)

func (a *EmailAdapter) Send(ctx context.Context, to, subject, body string) error {
	return a.svc.Send(ctx, to, subject, body)
}

func (a *EmailAdapter) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	return a.svc.SendHTML(ctx, to, subject, htmlBody)
}

func (a *EmailAdapter) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	return a.svc.SendTemplate(ctx, to, templateName, data)
}

func (a *EmailAdapter) SendWelcome(ctx context.Context, user *domain.User) error {
	return a.svc.SendWelcome(ctx, user)
}

func (a *EmailAdapter) SendReceipt(ctx context.Context, toEmail string, order *domain.Order, payment *domain.Payment) error {
	return a.svc.SendReceipt(ctx, toEmail, order, payment)
}

func (a *EmailAdapter) SendOrderReady(ctx context.Context, toEmail string, order *domain.Order) error {
	return a.svc.SendOrderReady(ctx, toEmail, order)
}

func (a *EmailAdapter) SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error {
	return a.svc.SendPasswordReset(ctx, user, resetToken)
}
