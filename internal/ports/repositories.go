package ports

import (
	"context"
	"time"

	"github.com/seu-repo/comanda/internal/domain"
)

type MenuRepository interface {
	Save(ctx context.Context, item *domain.MenuItem) error
	FindByID(ctx context.Context, id string) (*domain.MenuItem, error)
	FindByName(ctx context.Context, name string) (*domain.MenuItem, error)
	FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error)
	FindAvailable(ctx context.Context) ([]domain.MenuItem, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByNumber(ctx context.Context, number int) (*domain.Order, error)
	FindOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	FindHistoryByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	NextNumber(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, error)
	CountPlacedBetween(ctx context.Context, since, until time.Time) (int, error)
	SumClosedTotals(ctx context.Context, since, until time.Time) (float64, error)
	ClosedTotalsByDay(ctx context.Context, since, until time.Time) ([]DailyRevenue, error)
	TopItems(ctx context.Context, since, until time.Time, limit int) ([]ItemSales, error)
	AverageTimeToReady(ctx context.Context, station string, lastN int) (time.Duration, error)
}

// DailyRevenue aggregates closed orders for one calendar day.
type DailyRevenue struct {
	Day     string  `json:"day"` // YYYY-MM-DD
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ItemSales aggregates closed-order sales for one menu item.
type ItemSales struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// PaymentRepository handles payment persistence
type PaymentRepository interface {
	SavePayment(ctx context.Context, payment *domain.Payment) error
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	GetPaymentByProviderID(ctx context.Context, providerID string) (*domain.Payment, error)
	GetPaymentsByOrder(ctx context.Context, orderID string) ([]domain.Payment, error)
	GetPaymentsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error)
	SaveRefund(ctx context.Context, refund *domain.Refund) error
	GetRefundsByPayment(ctx context.Context, paymentID string) ([]domain.Refund, error)
}
