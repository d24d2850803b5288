package mocks

import (
	"context"
	"time"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// MockMenuRepository is a mock implementation of MenuRepository
type MockMenuRepository struct {
	SaveFunc            func(ctx context.Context, item *domain.MenuItem) error
	FindByIDFunc        func(ctx context.Context, id string) (*domain.MenuItem, error)
	FindByNameFunc      func(ctx context.Context, name string) (*domain.MenuItem, error)
	FindAllFunc         func(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error)
	FindAvailableFunc   func(ctx context.Context) ([]domain.MenuItem, error)
	SetAvailabilityFunc func(ctx context.Context, id string, available bool) error
	DeleteFunc          func(ctx context.Context, id string) error
}

func (m *MockMenuRepository) Save(ctx context.Context, item *domain.MenuItem) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, item)
	}
	return nil
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMenuRepository) FindByName(ctx context.Context, name string) (*domain.MenuItem, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockMenuRepository) FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockMenuRepository) FindAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	if m.FindAvailableFunc != nil {
		return m.FindAvailableFunc(ctx)
	}
	return nil, nil
}

func (m *MockMenuRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if m.SetAvailabilityFunc != nil {
		return m.SetAvailabilityFunc(ctx, id, available)
	}
	return nil
}

func (m *MockMenuRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	SaveFunc                func(ctx context.Context, order *domain.Order) error
	FindByIDFunc            func(ctx context.Context, id string) (*domain.Order, error)
	FindByNumberFunc        func(ctx context.Context, number int) (*domain.Order, error)
	FindOpenByTableFunc     func(ctx context.Context, tableNumber int) (*domain.Order, error)
	FindByStatusFunc        func(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	FindHistoryByUserIDFunc func(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	UpdateFunc              func(ctx context.Context, order *domain.Order) error
	NextNumberFunc          func(ctx context.Context) (int, error)
	CountByStatusFunc       func(ctx context.Context) (map[domain.OrderStatus]int, error)
	CountPlacedBetweenFunc  func(ctx context.Context, since, until time.Time) (int, error)
	SumClosedTotalsFunc     func(ctx context.Context, since, until time.Time) (float64, error)
	ClosedTotalsByDayFunc   func(ctx context.Context, since, until time.Time) ([]ports.DailyRevenue, error)
	TopItemsFunc            func(ctx context.Context, since, until time.Time, limit int) ([]ports.ItemSales, error)
	AverageTimeToReadyFunc  func(ctx context.Context, station string, lastN int) (time.Duration, error)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number int) (*domain.Order, error) {
	if m.FindByNumberFunc != nil {
		return m.FindByNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error) {
	if m.FindOpenByTableFunc != nil {
		return m.FindOpenByTableFunc(ctx, tableNumber)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindHistoryByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	if m.FindHistoryByUserIDFunc != nil {
		return m.FindHistoryByUserIDFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderRepository) NextNumber(ctx context.Context) (int, error) {
	if m.NextNumberFunc != nil {
		return m.NextNumberFunc(ctx)
	}
	return 1, nil
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrderRepository) CountPlacedBetween(ctx context.Context, since, until time.Time) (int, error) {
	if m.CountPlacedBetweenFunc != nil {
		return m.CountPlacedBetweenFunc(ctx, since, until)
	}
	return 0, nil
}

func (m *MockOrderRepository) SumClosedTotals(ctx context.Context, since, until time.Time) (float64, error) {
	if m.SumClosedTotalsFunc != nil {
		return m.SumClosedTotalsFunc(ctx, since, until)
	}
	return 0, nil
}

func (m *MockOrderRepository) ClosedTotalsByDay(ctx context.Context, since, until time.Time) ([]ports.DailyRevenue, error) {
	if m.ClosedTotalsByDayFunc != nil {
		return m.ClosedTotalsByDayFunc(ctx, since, until)
	}
	return nil, nil
}

func (m *MockOrderRepository) TopItems(ctx context.Context, since, until time.Time, limit int) ([]ports.ItemSales, error) {
	if m.TopItemsFunc != nil {
		return m.TopItemsFunc(ctx, since, until, limit)
	}
	return nil, nil
}

func (m *MockOrderRepository) AverageTimeToReady(ctx context.Context, station string, lastN int) (time.Duration, error) {
	if m.AverageTimeToReadyFunc != nil {
		return m.AverageTimeToReadyFunc(ctx, station, lastN)
	}
	return 0, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	FindAllFunc     func(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]domain.User, error)
	UpdateFunc      func(ctx context.Context, user *domain.User) error
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]domain.User, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, limit, offset)
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	SavePaymentFunc            func(ctx context.Context, payment *domain.Payment) error
	GetPaymentFunc             func(ctx context.Context, id string) (*domain.Payment, error)
	GetPaymentByProviderIDFunc func(ctx context.Context, providerID string) (*domain.Payment, error)
	GetPaymentsByOrderFunc     func(ctx context.Context, orderID string) ([]domain.Payment, error)
	GetPaymentsByUserFunc      func(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error)
	SaveRefundFunc             func(ctx context.Context, refund *domain.Refund) error
	GetRefundsByPaymentFunc    func(ctx context.Context, paymentID string) ([]domain.Refund, error)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	if m.SavePaymentFunc != nil {
		return m.SavePaymentFunc(ctx, payment)
	}
	return nil
}

func (m *MockPaymentRepository) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPaymentRepository) GetPaymentByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	if m.GetPaymentByProviderIDFunc != nil {
		return m.GetPaymentByProviderIDFunc(ctx, providerID)
	}
	return nil, nil
}

func (m *MockPaymentRepository) GetPaymentsByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	if m.GetPaymentsByOrderFunc != nil {
		return m.GetPaymentsByOrderFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockPaymentRepository) GetPaymentsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error) {
	if m.GetPaymentsByUserFunc != nil {
		return m.GetPaymentsByUserFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockPaymentRepository) SaveRefund(ctx context.Context, refund *domain.Refund) error {
	if m.SaveRefundFunc != nil {
		return m.SaveRefundFunc(ctx, refund)
	}
	return nil
}

func (m *MockPaymentRepository) GetRefundsByPayment(ctx context.Context, paymentID string) ([]domain.Refund, error) {
	if m.GetRefundsByPaymentFunc != nil {
		return m.GetRefundsByPaymentFunc(ctx, paymentID)
	}
	return nil, nil
}
