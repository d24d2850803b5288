package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

const handlerTimeout = 10 * time.Second

// Notifier turns queue events into customer-facing messages. Dine-in
// orders stay silent since the server brings the food; takeout and
// delivery customers get pinged when the kitchen finishes, and anyone
// who left an email gets the receipt once payment completes.
type Notifier struct {
	orders   ports.OrderService
	payments ports.PaymentService
	email    ports.EmailService
	sms      *SMSAdapter
	push     *PushAdapter
	log      *zap.Logger
}

// NewNotifier creates a notifier. sms and push may be nil when the
// corresponding channel is not configured.
func NewNotifier(
	orders ports.OrderService,
	payments ports.PaymentService,
	email ports.EmailService,
	sms *SMSAdapter,
	push *PushAdapter,
	log *zap.Logger,
) *Notifier {
	return &Notifier{
		orders:   orders,
		payments: payments,
		email:    email,
		sms:      sms,
		push:     push,
		log:      log,
	}
}

// Start subscribes the notifier to order status and payment events.
func (n *Notifier) Start(mq queue.MessageQueue) error {
	if err := mq.Subscribe(queue.SubjectOrderStatus, n.handleOrderStatus); err != nil {
		return fmt.Errorf("subscribe order status: %w", err)
	}
	if err := mq.Subscribe(queue.SubjectPaymentEvents, n.handlePayment); err != nil {
		return fmt.Errorf("subscribe payment events: %w", err)
	}
	n.log.Info("Notifier started")
	return nil
}

type orderStatusEvent struct {
	OrderID string             `json:"order_id"`
	Number  int                `json:"number"`
	To      domain.OrderStatus `json:"to"`
}

func (n *Notifier) handleOrderStatus(data []byte) error {
	var event orderStatusEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode order status event: %w", err)
	}
	if event.To != domain.OrderStatusReady {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	order, err := n.orders.GetOrder(ctx, event.OrderID)
	if err != nil {
		n.log.Warn("Order ready notification skipped, order not found",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return nil
	}
	if order.Type == domain.OrderTypeDineIn {
		return nil
	}

	if n.sms != nil && order.CustomerPhone != "" {
		action := "pickup"
		if order.Type == domain.OrderTypeDelivery {
			action = "delivery"
		}
		msg := fmt.Sprintf("Comanda: order #%d is ready for %s.", order.Number, action)
		if err := n.sms.SendSMS(ctx, order.CustomerPhone, msg); err != nil {
			n.log.Warn("Order ready SMS failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
	}

	if n.email != nil && order.CustomerEmail != "" {
		if err := n.email.SendOrderReady(ctx, order.CustomerEmail, order); err != nil {
			n.log.Warn("Order ready email failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
	}

	if n.push != nil {
		title := fmt.Sprintf("Order #%d is ready", order.Number)
		data := map[string]string{
			"order_id": order.ID,
			"status":   string(order.Status),
		}
		topic := "order-" + order.ID
		if err := n.push.SendToTopic(ctx, topic, title, "Your order is ready.", data); err != nil {
			n.log.Warn("Order ready push failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

type paymentEvent struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
}

// handlePayment mails the receipt for completed payments when the
// order carries a customer email.
func (n *Notifier) handlePayment(data []byte) error {
	var event paymentEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode payment event: %w", err)
	}
	if n.email == nil || event.OrderID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	order, err := n.orders.GetOrder(ctx, event.OrderID)
	if err != nil {
		n.log.Warn("Receipt skipped, order not found",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return nil
	}
	if order.CustomerEmail == "" {
		return nil
	}

	var payment *domain.Payment
	if n.payments != nil && event.PaymentID != "" {
		payment, err = n.payments.GetPayment(ctx, event.PaymentID)
		if err != nil {
			n.log.Warn("Receipt continues without payment details",
				zap.String("payment_id", event.PaymentID),
				zap.Error(err),
			)
			payment = nil
		}
	}

	if err := n.email.SendReceipt(ctx, order.CustomerEmail, order, payment); err != nil {
		n.log.Warn("Receipt email failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}

	return nil
}
