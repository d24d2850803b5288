package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type OrderHandler struct {
	service ports.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service ports.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

type CreateOrderBody struct {
	Type            string          `json:"type"`
	TableNumber     int             `json:"table_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email"`
	DeliveryAddress string          `json:"delivery_address"`
	Notes           string          `json:"notes"`
	VoiceOrigin     bool            `json:"voice_origin"`
	Lines           []OrderLineBody `json:"lines"`
}

type OrderLineBody struct {
	MenuItemID string   `json:"menu_item_id"`
	Quantity   int      `json:"quantity"`
	Modifiers  []string `json:"modifiers"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var body CreateOrderBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	userID, _ := c.Locals("user_id").(string)

	req := &ports.CreateOrderRequest{
		UserID:          userID,
		Type:            domain.OrderType(body.Type),
		TableNumber:     body.TableNumber,
		CustomerName:    body.CustomerName,
		CustomerPhone:   body.CustomerPhone,
		CustomerEmail:   body.CustomerEmail,
		DeliveryAddress: body.DeliveryAddress,
		Notes:           body.Notes,
		VoiceOrigin:     body.VoiceOrigin,
	}
	for _, line := range body.Lines {
		req.Lines = append(req.Lines, ports.OrderLineRequest{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Modifiers:  line.Modifiers,
		})
	}

	order, err := h.service.CreateOrder(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *OrderHandler) GetByTable(c *fiber.Ctx) error {
	tableNumber, err := c.ParamsInt("table")
	if err != nil || tableNumber <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid table number"})
	}

	order, err := h.service.GetOpenByTable(c.Context(), tableNumber)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *OrderHandler) ListByStatus(c *fiber.Ctx) error {
	status := domain.OrderStatus(c.Query("status", string(domain.OrderStatusReceived)))
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	orders, err := h.service.ListByStatus(c.Context(), status, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetHistory(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	orders, err := h.service.GetHistory(c.Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

type StatusRequest struct {
	Status string `json:"status"`
}

// AdvanceStatus moves an order along its lifecycle: PATCH /orders/:id/status.
// Illegal jumps come back as 409 via the error handler.
func (h *OrderHandler) AdvanceStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	order, err := h.service.AdvanceStatus(c.Context(), c.Params("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	order, err := h.service.CancelOrder(c.Context(), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(order)
}
