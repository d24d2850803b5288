package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/cache"
	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/observability/telemetry"
	"github.com/seu-repo/comanda/internal/ports"
)

// Provider defines the interface for payment providers
type Provider interface {
	// CreatePaymentIntent creates a payment intent for client-side confirmation
	CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.PaymentIntent, error)

	// RefundPayment refunds a payment
	RefundPayment(ctx context.Context, paymentID string, amount float64) (string, error)

	// ValidateWebhook validates webhook signature
	ValidateWebhook(payload []byte, signature string) error

	// ParseWebhook parses webhook payload
	ParseWebhook(payload []byte) (*WebhookEvent, error)

	// Name returns the provider name
	Name() string
}

// WebhookEvent represents a webhook event from provider
type WebhookEvent struct {
	EventID   string // provider delivery id, used for dedupe
	Type      string // payment_intent.succeeded, payment_intent.payment_failed, etc
	PaymentID string
	Status    domain.PaymentStatus
	Amount    float64
	Metadata  map[string]string
}

// Config holds payment service configuration
type Config struct {
	DefaultCurrency string

	// Stripe config
	StripeSecretKey     string
	StripeWebhookSecret string
}

// Service implements PaymentService interface
type Service struct {
	config    *Config
	providers map[domain.PaymentProvider]Provider
	repo      ports.PaymentRepository
	cache     ports.Cache
	mq        queue.MessageQueue
	log       *zap.Logger
}

// NewService creates a new payment service. Card payments need Stripe
// configured; cash and PIX settled at the counter work without any
// provider. A nil queue disables payment events; a nil cache disables
// webhook dedupe.
func NewService(config *Config, repo ports.PaymentRepository, c ports.Cache, mq queue.MessageQueue, log *zap.Logger) (*Service, error) {
	s := &Service{
		config:    config,
		providers: make(map[domain.PaymentProvider]Provider),
		repo:      repo,
		cache:     c,
		mq:        mq,
		log:       log,
	}

	if config.StripeSecretKey != "" {
		stripeProvider := NewStripeProvider(config.StripeSecretKey, config.StripeWebhookSecret)
		s.providers[domain.PaymentProviderStripe] = stripeProvider
		log.Info("Stripe payment provider initialized")
	}

	if len(s.providers) == 0 {
		log.Warn("No card payment provider configured, only counter payments available")
	}

	return s, nil
}

func (s *Service) getProvider(provider domain.PaymentProvider) (Provider, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("payment provider not configured: %s", provider)
	}
	return p, nil
}

// CreatePaymentIntent creates a payment intent for client-side
// confirmation of an order total.
func (s *Service) CreatePaymentIntent(ctx context.Context, userID string, orderID string, amount float64, currency string) (*domain.PaymentIntent, error) {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	provider, err := s.getProvider(domain.PaymentProviderStripe)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"user_id":  userID,
		"order_id": orderID,
	}

	intent, err := provider.CreatePaymentIntent(ctx, amount, currency, metadata)
	if err != nil {
		s.log.Error("Failed to create payment intent",
			zap.String("user_id", userID),
			zap.String("order_id", orderID),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	// Pending until the webhook confirms; the record ties the intent to
	// the order.
	payment := &domain.Payment{
		ID:         uuid.New().String(),
		UserID:     userID,
		OrderID:    orderID,
		Provider:   domain.PaymentProviderStripe,
		ProviderID: intent.ID,
		Method:     domain.PaymentMethodCreditCard,
		Status:     domain.PaymentStatusPending,
		Amount:     amount,
		Currency:   currency,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.repo.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	return intent, nil
}

// RecordManualPayment records a cash or PIX payment settled at the
// counter. There is no provider round-trip: the staff member vouches
// for the money.
func (s *Service) RecordManualPayment(ctx context.Context, userID, orderID string, amount float64, method domain.PaymentMethod) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	switch method {
	case domain.PaymentMethodCash, domain.PaymentMethodPix:
	default:
		return nil, fmt.Errorf("manual payments accept cash or pix, got %s", method)
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:          uuid.New().String(),
		UserID:      userID,
		OrderID:     orderID,
		Provider:    domain.PaymentProviderManual,
		Method:      method,
		Status:      domain.PaymentStatusCompleted,
		Amount:      amount,
		Currency:    s.config.DefaultCurrency,
		Description: "Counter payment",
		CreatedAt:   now,
		UpdatedAt:   now,
		CompletedAt: &now,
	}

	if err := s.repo.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.publishCompleted(payment)
	telemetry.PaymentsCompletedTotal.WithLabelValues(string(method), string(payment.Provider)).Inc()

	s.log.Info("Manual payment recorded",
		zap.String("payment_id", payment.ID),
		zap.String("order_id", orderID),
		zap.String("method", string(method)),
		zap.Float64("amount", amount),
	)

	return payment, nil
}

// publishCompleted emits the event the receipt mailer listens on.
func (s *Service) publishCompleted(payment *domain.Payment) {
	if s.mq == nil {
		return
	}

	event := map[string]interface{}{
		"event_type": "payment.completed",
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"method":     payment.Method,
		"amount":     payment.Amount,
		"currency":   payment.Currency,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.mq.Publish(queue.SubjectPaymentEvents, data); err != nil {
		s.log.Warn("Failed to publish payment event", zap.Error(err))
	}
}

// GetPayment retrieves a payment by ID
func (s *Service) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.repo.GetPayment(ctx, paymentID)
}

// GetOrderPayments retrieves payments recorded against an order
func (s *Service) GetOrderPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	return s.repo.GetPaymentsByOrder(ctx, orderID)
}

// RefundPayment refunds a payment
func (s *Service) RefundPayment(ctx context.Context, paymentID string, amount float64, reason string) (*domain.Refund, error) {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment not found: %w", err)
	}

	if payment.Status != domain.PaymentStatusCompleted {
		return nil, fmt.Errorf("can only refund completed payments")
	}

	if amount <= 0 {
		amount = payment.Amount // Full refund
	}

	if amount > payment.Amount {
		return nil, fmt.Errorf("refund amount exceeds payment amount")
	}

	refund := &domain.Refund{
		ID:        uuid.New().String(),
		PaymentID: paymentID,
		Amount:    amount,
		Status:    domain.PaymentStatusCompleted,
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	// Manual payments refund at the counter; only provider payments
	// round-trip.
	if payment.Provider != domain.PaymentProviderManual {
		provider, err := s.getProvider(payment.Provider)
		if err != nil {
			return nil, err
		}

		refundID, err := provider.RefundPayment(ctx, payment.ProviderID, amount)
		if err != nil {
			s.log.Error("Refund failed",
				zap.String("payment_id", paymentID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("refund failed: %w", err)
		}
		refund.ProviderID = refundID
	}

	if err := s.repo.SaveRefund(ctx, refund); err != nil {
		s.log.Error("Failed to save refund record", zap.Error(err))
	}

	// Update payment status if full refund
	if amount == payment.Amount {
		payment.Status = domain.PaymentStatusRefunded
		payment.UpdatedAt = time.Now()
		s.repo.SavePayment(ctx, payment)
	}

	s.log.Info("Refund processed",
		zap.String("payment_id", paymentID),
		zap.String("refund_id", refund.ID),
		zap.Float64("amount", amount),
	)

	return refund, nil
}

// HandleWebhook handles payment provider webhooks
func (s *Service) HandleWebhook(ctx context.Context, providerName string, payload []byte, signature string) error {
	var providerType domain.PaymentProvider
	switch providerName {
	case "stripe":
		providerType = domain.PaymentProviderStripe
	default:
		return fmt.Errorf("unknown provider: %s", providerName)
	}

	provider, err := s.getProvider(providerType)
	if err != nil {
		return err
	}

	// Validate signature
	if err := provider.ValidateWebhook(payload, signature); err != nil {
		s.log.Warn("Invalid webhook signature",
			zap.String("provider", providerName),
			zap.Error(err),
		)
		return fmt.Errorf("invalid webhook signature: %w", err)
	}

	// Parse event
	event, err := provider.ParseWebhook(payload)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	// Providers redeliver on slow acks; a seen event id is a no-op.
	if s.seenWebhook(ctx, providerName, event.EventID) {
		s.log.Info("Duplicate webhook delivery skipped",
			zap.String("provider", providerName),
			zap.String("event_id", event.EventID),
		)
		return nil
	}

	s.log.Info("Webhook received",
		zap.String("provider", providerName),
		zap.String("type", event.Type),
		zap.String("payment_id", event.PaymentID),
	)

	// Find payment by provider ID
	payment, err := s.repo.GetPaymentByProviderID(ctx, event.PaymentID)
	if err != nil {
		s.log.Warn("Payment not found for webhook",
			zap.String("provider_id", event.PaymentID),
		)
		return nil // Don't error, might be a test event
	}

	// Update payment status
	payment.Status = event.Status
	payment.UpdatedAt = time.Now()

	if event.Status == domain.PaymentStatusCompleted {
		now := time.Now()
		payment.CompletedAt = &now
	}

	if err := s.repo.SavePayment(ctx, payment); err != nil {
		s.log.Error("Failed to update payment from webhook", zap.Error(err))
		return err
	}

	s.markWebhookSeen(ctx, providerName, event.EventID)

	if event.Status == domain.PaymentStatusCompleted {
		s.publishCompleted(payment)
		telemetry.PaymentsCompletedTotal.WithLabelValues(string(payment.Method), string(payment.Provider)).Inc()
	}

	return nil
}

func (s *Service) seenWebhook(ctx context.Context, provider, eventID string) bool {
	if s.cache == nil || eventID == "" {
		return false
	}
	val, err := s.cache.Get(ctx, cache.WebhookSeenKey(provider, eventID))
	return err == nil && val != ""
}

func (s *Service) markWebhookSeen(ctx context.Context, provider, eventID string) {
	if s.cache == nil || eventID == "" {
		return
	}
	if err := s.cache.Set(ctx, cache.WebhookSeenKey(provider, eventID), "1", cache.WebhookSeenTTL); err != nil {
		s.log.Warn("Failed to record webhook delivery", zap.String("event_id", eventID), zap.Error(err))
	}
}
