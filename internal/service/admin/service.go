package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// Service implements AdminService
type Service struct {
	userRepo  ports.UserRepository
	orderRepo ports.OrderRepository
	menuRepo  ports.MenuRepository
	log       *zap.Logger
}

// NewService creates a new admin service
func NewService(
	userRepo ports.UserRepository,
	orderRepo ports.OrderRepository,
	menuRepo ports.MenuRepository,
	log *zap.Logger,
) *Service {
	return &Service{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		log:       log,
	}
}

// GetDashboardStats returns the numbers the manager checks during
// service: what is on the floor right now plus today's totals.
func (s *Service) GetDashboardStats(ctx context.Context) (*ports.DashboardStats, error) {
	stats := &ports.DashboardStats{}

	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	stats.OrdersPreparing = counts[domain.OrderStatusPreparing]
	stats.OrdersReady = counts[domain.OrderStatusReady]
	stats.OpenOrders = counts[domain.OrderStatusReceived] + stats.OrdersPreparing + stats.OrdersReady

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayCount, err := s.orderRepo.CountPlacedBetween(ctx, dayStart, now)
	if err != nil {
		s.log.Warn("Failed to count today's orders", zap.Error(err))
	} else {
		stats.TodayOrders = todayCount
	}

	revenue, err := s.orderRepo.SumClosedTotals(ctx, dayStart, now)
	if err != nil {
		s.log.Warn("Failed to sum today's revenue", zap.Error(err))
	} else {
		stats.TodayRevenue = revenue
	}

	// 86d items: on the menu but flipped unavailable.
	unavailable, err := s.menuRepo.FindAll(ctx, map[string]interface{}{"available": false})
	if err != nil {
		s.log.Warn("Failed to count 86d items", zap.Error(err))
	} else {
		stats.ItemsEightySixd = len(unavailable)
	}

	return stats, nil
}

// GetSalesStats aggregates closed orders over a period.
func (s *Service) GetSalesStats(ctx context.Context, startDate, endDate time.Time) (*ports.SalesStats, error) {
	stats := &ports.SalesStats{
		RevenueByDay: make(map[string]float64),
	}

	days, err := s.orderRepo.ClosedTotalsByDay(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	for _, day := range days {
		stats.RevenueByDay[day.Day] = day.Revenue
		stats.TotalRevenue += day.Revenue
		stats.OrderCount += day.Orders
	}
	if stats.OrderCount > 0 {
		stats.AveragePerTkt = stats.TotalRevenue / float64(stats.OrderCount)
	}

	topItems, err := s.orderRepo.TopItems(ctx, startDate, endDate, 10)
	if err != nil {
		s.log.Warn("Failed to fetch top items", zap.Error(err))
	} else {
		stats.TopItems = topItems
	}

	return stats, nil
}

// GetUsers returns paginated users
func (s *Service) GetUsers(ctx context.Context, filter ports.UserFilter, limit, offset int) ([]domain.User, error) {
	filterMap := make(map[string]interface{})
	if filter.Status != "" {
		filterMap["status"] = filter.Status
	}
	if filter.Role != "" {
		filterMap["role"] = filter.Role
	}
	if filter.Search != "" {
		filterMap["search"] = filter.Search
	}

	users, err := s.userRepo.FindAll(ctx, filterMap, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserStatus updates a user's status
func (s *Service) UpdateUserStatus(ctx context.Context, userID string, status string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}

	user.Status = status
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info("User status updated",
		zap.String("user_id", userID),
		zap.String("status", status),
	)

	return nil
}

// UpdateUserRole updates a user's role
func (s *Service) UpdateUserRole(ctx context.Context, userID string, role domain.UserRole) error {
	switch role {
	case domain.UserRoleAdmin, domain.UserRoleManager, domain.UserRoleStaff:
	default:
		return fmt.Errorf("unknown role: %s", role)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}

	user.Role = role
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info("User role updated",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
	)

	return nil
}

// GenerateReport generates a CSV report
func (s *Service) GenerateReport(ctx context.Context, reportType string, startDate, endDate time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	switch reportType {
	case "revenue":
		w.Write([]string{"Date", "Orders", "Revenue"})
		days, err := s.orderRepo.ClosedTotalsByDay(ctx, startDate, endDate)
		if err != nil {
			return nil, fmt.Errorf("revenue report: %w", err)
		}
		for _, day := range days {
			w.Write([]string{
				day.Day,
				strconv.Itoa(day.Orders),
				strconv.FormatFloat(day.Revenue, 'f', 2, 64),
			})
		}

	case "items":
		w.Write([]string{"Item", "Quantity", "Revenue"})
		items, err := s.orderRepo.TopItems(ctx, startDate, endDate, 100)
		if err != nil {
			return nil, fmt.Errorf("items report: %w", err)
		}
		for _, item := range items {
			w.Write([]string{
				item.Name,
				strconv.Itoa(item.Quantity),
				strconv.FormatFloat(item.Revenue, 'f', 2, 64),
			})
		}

	case "menu":
		w.Write([]string{"Name", "Category", "Price", "Station", "Available"})
		items, err := s.menuRepo.FindAll(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("menu report: %w", err)
		}
		for _, item := range items {
			w.Write([]string{
				item.Name,
				string(item.Category),
				strconv.FormatFloat(item.Price, 'f', 2, 64),
				item.Station,
				strconv.FormatBool(item.Available),
			})
		}

	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	return buf.Bytes(), nil
}
