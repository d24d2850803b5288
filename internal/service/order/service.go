package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/observability/telemetry"
	"github.com/seu-repo/comanda/internal/ports"
	"github.com/seu-repo/comanda/internal/service/analytics"
)

type Service struct {
	repo      ports.OrderRepository
	menu      ports.MenuService
	estimator *analytics.Estimator
	mq        queue.MessageQueue
	pricer    *Pricer
	log       *zap.Logger
}

func NewService(
	repo ports.OrderRepository,
	menu ports.MenuService,
	estimator *analytics.Estimator,
	mq queue.MessageQueue,
	pricing *PricingConfig,
	log *zap.Logger,
) ports.OrderService {
	return &Service{
		repo:      repo,
		menu:      menu,
		estimator: estimator,
		mq:        mq,
		pricer:    NewPricer(pricing),
		log:       log,
	}
}

// CreateOrder validates the request against the live menu, prices the
// lines, assigns the next kitchen ticket number and issues the ticket.
func (s *Service) CreateOrder(ctx context.Context, req *ports.CreateOrderRequest) (*domain.Order, error) {
	if req == nil || len(req.Lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if req.Type == "" {
		req.Type = domain.OrderTypeDineIn
	}
	switch req.Type {
	case domain.OrderTypeDineIn:
		if req.TableNumber <= 0 {
			return nil, errors.New("dine-in orders require a table number")
		}
	case domain.OrderTypeDelivery:
		if req.DeliveryAddress == "" {
			return nil, errors.New("delivery orders require an address")
		}
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Type:            req.Type,
		TableNumber:     req.TableNumber,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		DeliveryAddress: req.DeliveryAddress,
		Status:          domain.OrderStatusReceived,
		Notes:           req.Notes,
		VoiceOrigin:     req.VoiceOrigin,
		PlacedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, line := range req.Lines {
		item, err := s.menu.GetItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("menu item %s: %w", line.MenuItemID, err)
		}
		if !item.Available {
			return nil, fmt.Errorf("%s: %w", item.Name, domain.ErrItemUnavailable)
		}

		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID:  item.ID,
			Name:        item.Name,
			Quantity:    quantity,
			UnitPrice:   s.pricer.UnitPrice(item, now),
			Modifiers:   line.Modifiers,
			Station:     item.Station,
			PrepMinutes: item.PrepMinutes,
		})
	}

	s.pricer.Apply(order)

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	order.Number = number

	if s.estimator != nil {
		order.EstimatedReadyAt = s.estimator.EstimateReadyAt(ctx, order)
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishCreated(order)

	origin := "staff"
	if order.VoiceOrigin {
		origin = "voice"
	}
	telemetry.OrdersPlacedTotal.WithLabelValues(string(order.Type), origin).Inc()

	s.log.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int("number", order.Number),
		zap.String("type", string(order.Type)),
		zap.Float64("total", order.Total),
		zap.Bool("voice_origin", order.VoiceOrigin),
	)

	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) GetOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error) {
	order, err := s.repo.FindOpenByTable(ctx, tableNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.FindByStatus(ctx, status, limit, offset)
}

func (s *Service) GetHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.FindHistoryByUserID(ctx, userID, limit, offset)
}

// AdvanceStatus moves an order along received -> preparing -> ready ->
// closed. Illegal jumps fail without touching the order.
func (s *Service) AdvanceStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	if !order.CanTransition(to) {
		return nil, &domain.InvalidOrderTransitionError{From: order.Status, To: to}
	}

	from := order.Status
	now := time.Now()
	order.Status = to
	order.UpdatedAt = now
	switch to {
	case domain.OrderStatusReady:
		order.ReadyAt = &now
	case domain.OrderStatusClosed:
		order.ClosedAt = &now
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if to == domain.OrderStatusClosed {
		telemetry.OrderRevenueTotal.Add(order.Total)
	}
	telemetry.OrderStatusTransitions.WithLabelValues(string(from), string(to)).Inc()

	s.publishStatus(order, from, "")
	s.log.Info("Order status changed",
		zap.String("order_id", order.ID),
		zap.Int("number", order.Number),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	return order, nil
}

// CancelOrder cancels an open order. The reason lands in the notes and
// in the status event for the kitchen feed.
func (s *Service) CancelOrder(ctx context.Context, orderID string, reason string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	if !order.CanTransition(domain.OrderStatusCanceled) {
		return nil, &domain.InvalidOrderTransitionError{From: order.Status, To: domain.OrderStatusCanceled}
	}

	from := order.Status
	now := time.Now()
	order.Status = domain.OrderStatusCanceled
	order.UpdatedAt = now
	if reason != "" {
		order.Notes = strings.TrimSpace(order.Notes + "\ncancelado: " + reason)
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	telemetry.OrderStatusTransitions.WithLabelValues(string(from), string(domain.OrderStatusCanceled)).Inc()
	s.publishStatus(order, from, reason)
	s.log.Info("Order canceled",
		zap.String("order_id", order.ID),
		zap.Int("number", order.Number),
		zap.String("reason", reason),
	)

	return order, nil
}

func (s *Service) publishCreated(order *domain.Order) {
	if s.mq == nil {
		return
	}

	event := map[string]interface{}{
		"event_type": "order.created",
		"order_id":   order.ID,
		"number":     order.Number,
		"type":       order.Type,
		"total":      order.Total,
		"currency":   order.Currency,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if data, err := json.Marshal(event); err == nil {
		if err := s.mq.Publish(queue.SubjectOrderCreated, data); err != nil {
			s.log.Warn("Failed to publish order created event", zap.Error(err))
		}
	}

	// The kitchen feed gets the full ticket, not just the event.
	if data, err := json.Marshal(order.AsTicket()); err == nil {
		if err := s.mq.Publish(queue.SubjectTicketIssued, data); err != nil {
			s.log.Warn("Failed to publish kitchen ticket", zap.Error(err))
		}
	}
}

func (s *Service) publishStatus(order *domain.Order, from domain.OrderStatus, reason string) {
	if s.mq == nil {
		return
	}

	event := map[string]interface{}{
		"event_type": "order.status_changed",
		"order_id":   order.ID,
		"number":     order.Number,
		"from":       from,
		"to":         order.Status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if reason != "" {
		event["reason"] = reason
	}

	if data, err := json.Marshal(event); err == nil {
		if err := s.mq.Publish(queue.SubjectOrderStatus, data); err != nil {
			s.log.Warn("Failed to publish order status event", zap.Error(err))
		}
	}
}
