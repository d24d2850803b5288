package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type MenuHandler struct {
	service ports.MenuService
	log     *zap.Logger
}

func NewMenuHandler(service ports.MenuService, log *zap.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		log:     log,
	}
}

func (h *MenuHandler) List(c *fiber.Ctx) error {
	filter := map[string]interface{}{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if c.Query("available") == "true" {
		filter["available"] = true
	}

	items, err := h.service.ListItems(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *MenuHandler) Get(c *fiber.Ctx) error {
	item, err := h.service.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

type MenuItemRequest struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Station     string   `json:"station"`
	PrepMinutes int      `json:"prep_minutes"`
	Available   *bool    `json:"available"`
}

func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var req MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	item := domain.MenuItem{
		Name:        req.Name,
		Aliases:     req.Aliases,
		Description: req.Description,
		Category:    domain.MenuCategory(req.Category),
		Price:       req.Price,
		Station:     req.Station,
		PrepMinutes: req.PrepMinutes,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := h.service.CreateItem(c.Context(), &item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *MenuHandler) Update(c *fiber.Ctx) error {
	var req MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	existing, err := h.service.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	existing.Name = req.Name
	existing.Aliases = req.Aliases
	existing.Description = req.Description
	existing.Category = domain.MenuCategory(req.Category)
	existing.Price = req.Price
	existing.Station = req.Station
	existing.PrepMinutes = req.PrepMinutes
	if req.Available != nil {
		existing.Available = *req.Available
	}

	if err := h.service.UpdateItem(c.Context(), existing); err != nil {
		return err
	}
	return c.JSON(existing)
}

func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteItem(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type AvailabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailability flips the 86 state of an item: PATCH /menu/:id/availability.
func (h *MenuHandler) SetAvailability(c *fiber.Ctx) error {
	var req AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.SetAvailability(c.Context(), c.Params("id"), req.Available); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "available": req.Available})
}

// Catalog serves the cached available-item snapshot, the same view the
// voice pipeline extracts against.
func (h *MenuHandler) Catalog(c *fiber.Ctx) error {
	items, err := h.service.Catalog(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(items)
}
