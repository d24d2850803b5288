package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/seu-repo/comanda/internal/domain"
)

// StripeProvider implements the Provider interface for Stripe
type StripeProvider struct {
	secretKey     string
	webhookSecret string
}

// NewStripeProvider creates a new Stripe provider
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

// Name returns the provider name
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreatePaymentIntent creates a Stripe payment intent
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	// Stripe expects amount in cents
	amountCents := int64(amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	if metadata != nil {
		params.Metadata = make(map[string]string)
		for k, v := range metadata {
			params.Metadata[k] = v
		}
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe error: %w", err)
	}

	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     currency,
		Status:       string(pi.Status),
	}, nil
}

// RefundPayment refunds a Stripe payment
func (p *StripeProvider) RefundPayment(ctx context.Context, paymentID string, amount float64) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
	}

	if amount > 0 {
		params.Amount = stripe.Int64(int64(amount * 100))
	}

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund error: %w", err)
	}

	return r.ID, nil
}

// ValidateWebhook validates Stripe webhook signature
func (p *StripeProvider) ValidateWebhook(payload []byte, signature string) error {
	_, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	return err
}

// ParseWebhook parses Stripe webhook payload
func (p *StripeProvider) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook: %w", err)
	}

	webhookEvent := &WebhookEvent{
		EventID:  event.ID,
		Type:     string(event.Type),
		Metadata: make(map[string]string),
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		webhookEvent.PaymentID = pi.ID
		webhookEvent.Status = domain.PaymentStatusCompleted
		webhookEvent.Amount = float64(pi.Amount) / 100
		for k, v := range pi.Metadata {
			webhookEvent.Metadata[k] = v
		}

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		webhookEvent.PaymentID = pi.ID
		webhookEvent.Status = domain.PaymentStatusFailed
		webhookEvent.Amount = float64(pi.Amount) / 100

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, err
		}
		webhookEvent.PaymentID = charge.PaymentIntent.ID
		webhookEvent.Status = domain.PaymentStatusRefunded
		webhookEvent.Amount = float64(charge.AmountRefunded) / 100

	default:
		webhookEvent.Status = domain.PaymentStatusPending
	}

	return webhookEvent, nil
}
