package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type PaymentHandler struct {
	payments ports.PaymentService
	orders   ports.OrderService
	log      *zap.Logger
}

func NewPaymentHandler(payments ports.PaymentService, orders ports.OrderService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		orders:   orders,
		log:      log,
	}
}

type CreateIntentRequest struct {
	OrderID string `json:"order_id"`
}

// CreateIntent opens a Stripe payment intent for the order total. The
// client confirms it with the returned secret.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	order, err := h.orders.GetOrder(c.Context(), req.OrderID)
	if err != nil {
		return err
	}

	userID, _ := c.Locals("user_id").(string)
	intent, err := h.payments.CreatePaymentIntent(c.Context(), userID, order.ID, order.Total, order.Currency)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(intent)
}

type ManualPaymentRequest struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"` // cash or pix
}

func (h *PaymentHandler) RecordManual(c *fiber.Ctx) error {
	var req ManualPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	userID, _ := c.Locals("user_id").(string)
	payment, err := h.payments.RecordManualPayment(c.Context(), userID, req.OrderID, req.Amount, domain.PaymentMethod(req.Method))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(payment)
}

func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	payment, err := h.payments.GetPayment(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(payment)
}

func (h *PaymentHandler) ListByOrder(c *fiber.Ctx) error {
	payments, err := h.payments.GetOrderPayments(c.Context(), c.Params("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

type RefundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	var req RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	refund, err := h.payments.RefundPayment(c.Context(), c.Params("id"), req.Amount, req.Reason)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(refund)
}

// Webhook receives provider callbacks. Unauthenticated: the signature
// header is the authentication.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	provider := c.Params("provider")
	signature := c.Get("Stripe-Signature")

	if err := h.payments.HandleWebhook(c.Context(), provider, c.Body(), signature); err != nil {
		h.log.Warn("Webhook rejected", zap.String("provider", provider), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusOK)
}
