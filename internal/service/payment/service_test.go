package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestService(t *testing.T, repo *mocks.MockPaymentRepository, mq *mocks.MockMessageQueue) *Service {
	t.Helper()

	service, err := NewService(&Config{DefaultCurrency: "BRL"}, repo, mocks.NewMockCache(), mq, newTestLogger())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func TestRecordManualPayment_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()

	var saved *domain.Payment
	mockRepo := &mocks.MockPaymentRepository{
		SavePaymentFunc: func(ctx context.Context, payment *domain.Payment) error {
			saved = payment
			return nil
		},
	}
	mockMQ := mocks.NewMockMessageQueue()

	service := newTestService(t, mockRepo, mockMQ)

	// Act
	payment, err := service.RecordManualPayment(ctx, "user-1", "order-1", 99.00, domain.PaymentMethodPix)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected status completed, got %s", payment.Status)
	}
	if payment.Provider != domain.PaymentProviderManual {
		t.Errorf("expected provider manual, got %s", payment.Provider)
	}
	if payment.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
	if saved == nil || saved.ID != payment.ID {
		t.Error("expected payment to be persisted")
	}

	messages := mockMQ.GetPublishedMessages(queue.SubjectPaymentEvents)
	if len(messages) != 1 {
		t.Fatalf("expected 1 payment event, got %d", len(messages))
	}
	var event map[string]interface{}
	if err := json.Unmarshal(messages[0], &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if event["event_type"] != "payment.completed" {
		t.Errorf("expected event_type payment.completed, got %v", event["event_type"])
	}
	if event["order_id"] != "order-1" {
		t.Errorf("expected order_id order-1, got %v", event["order_id"])
	}
}

func TestRecordManualPayment_RejectsCardMethod(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := newTestService(t, &mocks.MockPaymentRepository{}, mocks.NewMockMessageQueue())

	// Act
	_, err := service.RecordManualPayment(ctx, "user-1", "order-1", 50.00, domain.PaymentMethodCreditCard)

	// Assert
	if err == nil {
		t.Fatal("expected error for card method on manual payment")
	}
}

func TestRecordManualPayment_RejectsNonPositiveAmount(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := newTestService(t, &mocks.MockPaymentRepository{}, mocks.NewMockMessageQueue())

	// Act
	_, err := service.RecordManualPayment(ctx, "user-1", "order-1", 0, domain.PaymentMethodCash)

	// Assert
	if err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestCreatePaymentIntent_NoProviderConfigured(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := newTestService(t, &mocks.MockPaymentRepository{}, mocks.NewMockMessageQueue())

	// Act
	_, err := service.CreatePaymentIntent(ctx, "user-1", "order-1", 99.00, "BRL")

	// Assert
	if err == nil {
		t.Fatal("expected error when no card provider is configured")
	}
}

func TestRefundPayment_FullRefundMarksRefunded(t *testing.T) {
	// Arrange
	ctx := context.Background()

	stored := &domain.Payment{
		ID:       "payment-1",
		OrderID:  "order-1",
		Provider: domain.PaymentProviderManual,
		Method:   domain.PaymentMethodCash,
		Status:   domain.PaymentStatusCompleted,
		Amount:   120.00,
		Currency: "BRL",
	}

	var savedRefund *domain.Refund
	mockRepo := &mocks.MockPaymentRepository{
		GetPaymentFunc: func(ctx context.Context, id string) (*domain.Payment, error) {
			if id != stored.ID {
				return nil, errors.New("not found")
			}
			return stored, nil
		},
		SaveRefundFunc: func(ctx context.Context, refund *domain.Refund) error {
			savedRefund = refund
			return nil
		},
	}

	service := newTestService(t, mockRepo, mocks.NewMockMessageQueue())

	// Act: zero amount means full refund
	refund, err := service.RefundPayment(ctx, "payment-1", 0, "customer left")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if refund.Amount != 120.00 {
		t.Errorf("expected full refund of 120.00, got %.2f", refund.Amount)
	}
	if savedRefund == nil {
		t.Fatal("expected refund to be persisted")
	}
	if stored.Status != domain.PaymentStatusRefunded {
		t.Errorf("expected payment marked refunded, got %s", stored.Status)
	}
}

func TestRefundPayment_RejectsPendingPayment(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockPaymentRepository{
		GetPaymentFunc: func(ctx context.Context, id string) (*domain.Payment, error) {
			return &domain.Payment{
				ID:     id,
				Status: domain.PaymentStatusPending,
				Amount: 50.00,
			}, nil
		},
	}

	service := newTestService(t, mockRepo, mocks.NewMockMessageQueue())

	// Act
	_, err := service.RefundPayment(ctx, "payment-1", 0, "test")

	// Assert
	if err == nil {
		t.Fatal("expected error refunding a pending payment")
	}
}

func TestRefundPayment_RejectsExcessAmount(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockPaymentRepository{
		GetPaymentFunc: func(ctx context.Context, id string) (*domain.Payment, error) {
			return &domain.Payment{
				ID:       id,
				Provider: domain.PaymentProviderManual,
				Status:   domain.PaymentStatusCompleted,
				Amount:   50.00,
			}, nil
		},
	}

	service := newTestService(t, mockRepo, mocks.NewMockMessageQueue())

	// Act
	_, err := service.RefundPayment(ctx, "payment-1", 80.00, "test")

	// Assert
	if err == nil {
		t.Fatal("expected error when refund exceeds payment amount")
	}
}

// fakeProvider stands in for Stripe so webhook handling can be
// exercised without real signatures.
type fakeProvider struct {
	event *WebhookEvent
}

func (p *fakeProvider) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	return nil, errors.New("not implemented")
}

func (p *fakeProvider) RefundPayment(ctx context.Context, paymentID string, amount float64) (string, error) {
	return "", errors.New("not implemented")
}

func (p *fakeProvider) ValidateWebhook(payload []byte, signature string) error { return nil }

func (p *fakeProvider) ParseWebhook(payload []byte) (*WebhookEvent, error) { return p.event, nil }

func (p *fakeProvider) Name() string { return "stripe" }

func TestHandleWebhook_DuplicateDeliverySkipped(t *testing.T) {
	// Arrange
	ctx := context.Background()

	stored := &domain.Payment{
		ID:         "payment-1",
		OrderID:    "order-1",
		Provider:   domain.PaymentProviderStripe,
		ProviderID: "pi_123",
		Method:     domain.PaymentMethodCreditCard,
		Status:     domain.PaymentStatusPending,
		Amount:     99.00,
	}

	saves := 0
	mockRepo := &mocks.MockPaymentRepository{
		GetPaymentByProviderIDFunc: func(ctx context.Context, providerID string) (*domain.Payment, error) {
			return stored, nil
		},
		SavePaymentFunc: func(ctx context.Context, payment *domain.Payment) error {
			saves++
			return nil
		},
	}
	mockMQ := mocks.NewMockMessageQueue()

	service := newTestService(t, mockRepo, mockMQ)
	service.providers[domain.PaymentProviderStripe] = &fakeProvider{
		event: &WebhookEvent{
			EventID:   "evt_1",
			Type:      "payment_intent.succeeded",
			PaymentID: "pi_123",
			Status:    domain.PaymentStatusCompleted,
			Amount:    99.00,
		},
	}

	// Act: same delivery twice
	if err := service.HandleWebhook(ctx, "stripe", []byte(`{}`), "sig"); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := service.HandleWebhook(ctx, "stripe", []byte(`{}`), "sig"); err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}

	// Assert
	if saves != 1 {
		t.Errorf("expected 1 payment save, got %d", saves)
	}
	if events := mockMQ.GetPublishedMessages(queue.SubjectPaymentEvents); len(events) != 1 {
		t.Errorf("expected 1 payment event, got %d", len(events))
	}
}

func TestHandleWebhook_UnknownProvider(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := newTestService(t, &mocks.MockPaymentRepository{}, mocks.NewMockMessageQueue())

	// Act
	err := service.HandleWebhook(ctx, "paypal", []byte(`{}`), "sig")

	// Assert
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
