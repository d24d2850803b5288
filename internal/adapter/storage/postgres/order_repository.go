package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type OrderRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderRepository(db *gorm.DB, log *zap.Logger) ports.OrderRepository {
	return &OrderRepository{
		db:  db,
		log: log,
	}
}

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Save(order)
	if result.Error != nil {
		r.log.Error("Failed to save order", zap.String("order_id", order.ID), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByNumber(ctx context.Context, number int) (*domain.Order, error) {
	var order domain.Order
	// Ticket numbers reset daily, the latest one is the live ticket.
	err := r.db.WithContext(ctx).Preload("Items").
		Where("number = ?", number).
		Order("placed_at desc").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error) {
	var order domain.Order
	open := []domain.OrderStatus{domain.OrderStatusReceived, domain.OrderStatusPreparing, domain.OrderStatusReady}
	err := r.db.WithContext(ctx).Preload("Items").
		Where("table_number = ? AND status IN ?", tableNumber, open).
		Order("placed_at desc").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ?", status).
		Order("placed_at asc").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) FindHistoryByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("placed_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// NextNumber returns the next kitchen ticket number. Numbers restart
// at 1 each day so the expediter calls out small numbers.
func (r *OrderRepository) NextNumber(ctx context.Context) (int, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	type MaxResult struct {
		MaxNumber int
	}
	var res MaxResult
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(MAX(number), 0) as max_number").
		Where("placed_at >= ?", startOfDay).
		Scan(&res).Error
	if err != nil {
		return 0, err
	}
	return res.MaxNumber + 1, nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int, error) {
	type StatusCount struct {
		Status domain.OrderStatus
		Count  int
	}
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.OrderStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *OrderRepository) CountPlacedBetween(ctx context.Context, since, until time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("placed_at >= ? AND placed_at < ?", since, until).
		Count(&count).Error
	return int(count), err
}

func (r *OrderRepository) SumClosedTotals(ctx context.Context, since, until time.Time) (float64, error) {
	type SumResult struct {
		Total float64
	}
	var res SumResult
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total), 0) as total").
		Where("status = ? AND closed_at >= ? AND closed_at < ?", domain.OrderStatusClosed, since, until).
		Scan(&res).Error
	return res.Total, err
}

func (r *OrderRepository) ClosedTotalsByDay(ctx context.Context, since, until time.Time) ([]ports.DailyRevenue, error) {
	var rows []ports.DailyRevenue

	byDaySQL := `
		SELECT TO_CHAR(closed_at, 'YYYY-MM-DD') AS day,
		       COUNT(*) AS orders,
		       COALESCE(SUM(total), 0) AS revenue
		FROM orders
		WHERE status = ? AND closed_at >= ? AND closed_at < ?
		GROUP BY day
		ORDER BY day
	`

	result := r.db.WithContext(ctx).Raw(byDaySQL, domain.OrderStatusClosed, since, until).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *OrderRepository) TopItems(ctx context.Context, since, until time.Time, limit int) ([]ports.ItemSales, error) {
	var sales []ports.ItemSales

	topItemsSQL := `
		SELECT oi.menu_item_id, oi.name,
		       SUM(oi.quantity) AS quantity,
		       SUM(oi.quantity * oi.unit_price) AS revenue
		FROM order_items oi
		INNER JOIN orders o ON o.id = oi.order_id
		WHERE o.status = ? AND o.closed_at >= ? AND o.closed_at < ?
		GROUP BY oi.menu_item_id, oi.name
		ORDER BY quantity DESC
		LIMIT ?
	`

	result := r.db.WithContext(ctx).Raw(topItemsSQL, domain.OrderStatusClosed, since, until, limit).Scan(&sales)
	if result.Error != nil {
		r.log.Error("Failed to aggregate top items", zap.Error(result.Error))
		return nil, result.Error
	}
	return sales, nil
}

// AverageTimeToReady averages placed-to-ready over the most recent
// completed orders, optionally narrowed to orders touching one
// kitchen station. Feeds the prep-time estimate on new orders.
func (r *OrderRepository) AverageTimeToReady(ctx context.Context, station string, lastN int) (time.Duration, error) {
	avgSQL := `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (ready_at - placed_at))), 0) AS avg_seconds
		FROM (
			SELECT o.ready_at, o.placed_at
			FROM orders o
			WHERE o.ready_at IS NOT NULL
			  AND (? = '' OR EXISTS (
				SELECT 1 FROM order_items oi
				WHERE oi.order_id = o.id AND oi.station = ?
			  ))
			ORDER BY o.ready_at DESC
			LIMIT ?
		) recent
	`

	type DurationResult struct {
		AvgSeconds float64
	}
	var dur DurationResult
	err := r.db.WithContext(ctx).Raw(avgSQL, station, station, lastN).Scan(&dur).Error
	if err != nil {
		return 0, err
	}
	return time.Duration(dur.AvgSeconds) * time.Second, nil
}
