package notification

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/mocks"
)

func newTestNotifier(orders *mocks.MockOrderService, payments *mocks.MockPaymentService, email *mocks.MockEmailService) *Notifier {
	return NewNotifier(orders, payments, email, nil, nil, zap.NewNop())
}

func TestNotifier_OrderReady_EmailsTakeoutCustomer(t *testing.T) {
	// Arrange
	order := &domain.Order{
		ID:            "order-1",
		Number:        12,
		Type:          domain.OrderTypeTakeout,
		Status:        domain.OrderStatusReady,
		CustomerEmail: "maria@example.com",
	}

	orders := &mocks.MockOrderService{
		GetOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			if id != "order-1" {
				t.Errorf("expected order-1, got %s", id)
			}
			return order, nil
		},
	}

	var sentTo string
	email := &mocks.MockEmailService{
		SendOrderReadyFunc: func(ctx context.Context, toEmail string, o *domain.Order) error {
			sentTo = toEmail
			return nil
		},
	}

	notifier := newTestNotifier(orders, &mocks.MockPaymentService{}, email)
	mq := mocks.NewMockMessageQueue()
	if err := notifier.Start(mq); err != nil {
		t.Fatalf("start: %v", err)
	}

	event, _ := json.Marshal(map[string]interface{}{
		"event_type": "order.status_changed",
		"order_id":   "order-1",
		"number":     12,
		"from":       "preparing",
		"to":         "ready",
	})

	// Act
	if err := mq.Deliver(queue.SubjectOrderStatus, event); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// Assert
	if sentTo != "maria@example.com" {
		t.Errorf("expected order ready email to maria@example.com, got %q", sentTo)
	}
}

func TestNotifier_OrderReady_DineInStaysSilent(t *testing.T) {
	// Arrange
	orders := &mocks.MockOrderService{
		GetOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{
				ID:            "order-2",
				Number:        13,
				Type:          domain.OrderTypeDineIn,
				Status:        domain.OrderStatusReady,
				TableNumber:   4,
				CustomerEmail: "table4@example.com",
			}, nil
		},
	}

	emailed := false
	email := &mocks.MockEmailService{
		SendOrderReadyFunc: func(ctx context.Context, toEmail string, o *domain.Order) error {
			emailed = true
			return nil
		},
	}

	notifier := newTestNotifier(orders, &mocks.MockPaymentService{}, email)
	mq := mocks.NewMockMessageQueue()
	if err := notifier.Start(mq); err != nil {
		t.Fatalf("start: %v", err)
	}

	event, _ := json.Marshal(map[string]interface{}{
		"order_id": "order-2",
		"to":       "ready",
	})

	// Act
	if err := mq.Deliver(queue.SubjectOrderStatus, event); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// Assert
	if emailed {
		t.Error("dine-in order should not trigger a customer email")
	}
}

func TestNotifier_OrderStatus_IgnoresNonReadyTransitions(t *testing.T) {
	// Arrange
	fetched := false
	orders := &mocks.MockOrderService{
		GetOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			fetched = true
			return nil, domain.ErrNotFound
		},
	}

	notifier := newTestNotifier(orders, &mocks.MockPaymentService{}, &mocks.MockEmailService{})
	mq := mocks.NewMockMessageQueue()
	if err := notifier.Start(mq); err != nil {
		t.Fatalf("start: %v", err)
	}

	event, _ := json.Marshal(map[string]interface{}{
		"order_id": "order-3",
		"to":       "preparing",
	})

	// Act
	if err := mq.Deliver(queue.SubjectOrderStatus, event); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// Assert
	if fetched {
		t.Error("non-ready transitions should not hit the order service")
	}
}

func TestNotifier_PaymentCompleted_MailsReceipt(t *testing.T) {
	// Arrange
	order := &domain.Order{
		ID:            "order-4",
		Number:        21,
		Type:          domain.OrderTypeDelivery,
		Status:        domain.OrderStatusClosed,
		CustomerEmail: "joao@example.com",
		Total:         85.00,
	}
	payment := &domain.Payment{
		ID:     "pay-4",
		Method: domain.PaymentMethodPix,
	}

	orders := &mocks.MockOrderService{
		GetOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return order, nil
		},
	}
	payments := &mocks.MockPaymentService{
		GetPaymentFunc: func(ctx context.Context, paymentID string) (*domain.Payment, error) {
			if paymentID != "pay-4" {
				t.Errorf("expected pay-4, got %s", paymentID)
			}
			return payment, nil
		},
	}

	var receiptTo string
	var receiptPayment *domain.Payment
	email := &mocks.MockEmailService{
		SendReceiptFunc: func(ctx context.Context, toEmail string, o *domain.Order, p *domain.Payment) error {
			receiptTo = toEmail
			receiptPayment = p
			return nil
		},
	}

	notifier := newTestNotifier(orders, payments, email)
	mq := mocks.NewMockMessageQueue()
	if err := notifier.Start(mq); err != nil {
		t.Fatalf("start: %v", err)
	}

	event, _ := json.Marshal(map[string]interface{}{
		"event_type": "payment.completed",
		"payment_id": "pay-4",
		"order_id":   "order-4",
	})

	// Act
	if err := mq.Deliver(queue.SubjectPaymentEvents, event); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// Assert
	if receiptTo != "joao@example.com" {
		t.Errorf("expected receipt to joao@example.com, got %q", receiptTo)
	}
	if receiptPayment == nil || receiptPayment.ID != "pay-4" {
		t.Error("expected receipt to carry the payment details")
	}
}

func TestNotifier_PaymentCompleted_NoCustomerEmail(t *testing.T) {
	// Arrange
	orders := &mocks.MockOrderService{
		GetOrderFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{ID: "order-5", Number: 22, Type: domain.OrderTypeDineIn}, nil
		},
	}

	mailed := false
	email := &mocks.MockEmailService{
		SendReceiptFunc: func(ctx context.Context, toEmail string, o *domain.Order, p *domain.Payment) error {
			mailed = true
			return nil
		},
	}

	notifier := newTestNotifier(orders, &mocks.MockPaymentService{}, email)
	mq := mocks.NewMockMessageQueue()
	if err := notifier.Start(mq); err != nil {
		t.Fatalf("start: %v", err)
	}

	event, _ := json.Marshal(map[string]interface{}{
		"payment_id": "pay-5",
		"order_id":   "order-5",
	})

	// Act
	if err := mq.Deliver(queue.SubjectPaymentEvents, event); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// Assert
	if mailed {
		t.Error("orders without a customer email should not get a receipt")
	}
}
