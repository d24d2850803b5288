package domain

import (
	"time"

	"github.com/lib/pq"
)

type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusClosed    OrderStatus = "closed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

type Order struct {
	ID               string      `json:"id" gorm:"primaryKey"`
	Number           int         `json:"number" gorm:"index"` // ticket number shown to the kitchen
	UserID           string      `json:"user_id" gorm:"index"`
	Type             OrderType   `json:"type"`
	TableNumber      int         `json:"table_number,omitempty"` // dine-in only
	CustomerName     string      `json:"customer_name,omitempty"`
	CustomerPhone    string      `json:"customer_phone,omitempty"`
	CustomerEmail    string      `json:"customer_email,omitempty"`
	DeliveryAddress  string      `json:"delivery_address,omitempty"`
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Status           OrderStatus `json:"status" gorm:"index"`
	Subtotal         float64     `json:"subtotal"`
	ServiceFee       float64     `json:"service_fee"`
	DeliveryFee      float64     `json:"delivery_fee,omitempty"`
	Total            float64     `json:"total"`
	Currency         string      `json:"currency"`
	Notes            string      `json:"notes,omitempty"`
	VoiceOrigin      bool        `json:"voice_origin"` // entered through the voice pipeline
	PlacedAt         time.Time   `json:"placed_at"`
	EstimatedReadyAt *time.Time  `json:"estimated_ready_at,omitempty"`
	ReadyAt          *time.Time  `json:"ready_at,omitempty"`
	ClosedAt         *time.Time  `json:"closed_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// OrderItem snapshots the menu data at order time, so later menu edits
// do not rewrite placed orders.
type OrderItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OrderID     string         `json:"order_id" gorm:"index"`
	MenuItemID  string         `json:"menu_item_id"`
	Name        string         `json:"name"`
	Quantity    int            `json:"quantity"`
	UnitPrice   float64        `json:"unit_price"`
	Modifiers   pq.StringArray `json:"modifiers,omitempty" gorm:"type:text[]"`
	Station     string         `json:"station,omitempty"`
	PrepMinutes int            `json:"prep_minutes,omitempty"`
}

// Ticket is the kitchen-facing projection of an order, pushed to the
// expediter feed in arrival order.
type Ticket struct {
	OrderID     string       `json:"order_id"`
	Number      int          `json:"number"`
	Type        OrderType    `json:"type"`
	TableNumber int          `json:"table_number,omitempty"`
	Items       []TicketLine `json:"items"`
	Notes       string       `json:"notes,omitempty"`
	IssuedAt    time.Time    `json:"issued_at"`
}

type TicketLine struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Modifiers []string `json:"modifiers,omitempty"`
	Station   string   `json:"station,omitempty"`
}

// orderTransitions lists the legal status changes. Closed and canceled
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusReceived:  {OrderStatusPreparing, OrderStatusCanceled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCanceled},
	OrderStatusReady:     {OrderStatusClosed, OrderStatusCanceled},
}

// CanTransition reports whether an order may move from its current
// status to the target status.
func (o *Order) CanTransition(to OrderStatus) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AsTicket builds the kitchen projection of the order.
func (o *Order) AsTicket() *Ticket {
	t := &Ticket{
		OrderID:     o.ID,
		Number:      o.Number,
		Type:        o.Type,
		TableNumber: o.TableNumber,
		Notes:       o.Notes,
		IssuedAt:    o.PlacedAt,
	}
	for _, item := range o.Items {
		t.Items = append(t.Items, TicketLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Modifiers: item.Modifiers,
			Station:   item.Station,
		})
	}
	return t
}
