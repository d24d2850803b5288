package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// Handler handles admin HTTP requests
type Handler struct {
	service ports.AdminService
}

// NewHandler creates a new admin handler
func NewHandler(service ports.AdminService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware, adminMiddleware fiber.Handler) {
	admin := app.Group("/api/v1/admin", authMiddleware, adminMiddleware)

	// Dashboard
	admin.Get("/dashboard", h.GetDashboard)
	admin.Get("/stats/sales", h.GetSalesStats)

	// Users
	admin.Get("/users", h.GetUsers)
	admin.Patch("/users/:id/status", h.UpdateUserStatus)
	admin.Patch("/users/:id/role", h.UpdateUserRole)

	// Reports
	admin.Get("/reports/:type", h.GenerateReport)
}

// GetDashboard handles GET /api/v1/admin/dashboard
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stats)
}

// GetSalesStats handles GET /api/v1/admin/stats/sales
func (h *Handler) GetSalesStats(c *fiber.Ctx) error {
	startDate, endDate := parseDateRange(c)

	stats, err := h.service.GetSalesStats(c.Context(), startDate, endDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stats)
}

// GetUsers handles GET /api/v1/admin/users
func (h *Handler) GetUsers(c *fiber.Ctx) error {
	filter := ports.UserFilter{
		Status: c.Query("status"),
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	users, err := h.service.GetUsers(c.Context(), filter, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateUserStatus handles PATCH /api/v1/admin/users/:id/status
func (h *Handler) UpdateUserStatus(c *fiber.Ctx) error {
	userID := c.Params("id")

	var body struct {
		Status string `json:"status" validate:"required,oneof=Active Inactive Blocked"`
	}

	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.service.UpdateUserStatus(c.Context(), userID, body.Status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "User status updated",
	})
}

// UpdateUserRole handles PATCH /api/v1/admin/users/:id/role
func (h *Handler) UpdateUserRole(c *fiber.Ctx) error {
	userID := c.Params("id")

	var body struct {
		Role string `json:"role" validate:"required,oneof=admin manager staff"`
	}

	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.service.UpdateUserRole(c.Context(), userID, domain.UserRole(body.Role)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "User role updated",
	})
}

// GenerateReport handles GET /api/v1/admin/reports/:type
func (h *Handler) GenerateReport(c *fiber.Ctx) error {
	reportType := c.Params("type")
	startDate, endDate := parseDateRange(c)

	report, err := h.service.GenerateReport(c.Context(), reportType, startDate, endDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename="+reportType+".csv")

	return c.Send(report)
}

// AdminMiddleware checks if user is admin
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Locals("user_role")
		if role != string(domain.UserRoleAdmin) && role != domain.UserRoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

// parseDateRange parses start and end dates from query parameters
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time) {
	now := time.Now()
	startDate := now.AddDate(0, 0, -30) // Default: last 30 days
	endDate := now

	if startStr := c.Query("start_date"); startStr != "" {
		if t, err := time.Parse("2006-01-02", startStr); err == nil {
			startDate = t
		}
	}

	if endStr := c.Query("end_date"); endStr != "" {
		if t, err := time.Parse("2006-01-02", endStr); err == nil {
			endDate = t
		}
	}

	return startDate, endDate
}
