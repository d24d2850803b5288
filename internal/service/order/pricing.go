package order

import (
	"math"
	"time"

	"github.com/seu-repo/comanda/internal/domain"
)

// PricingConfig holds the pricing rules applied when an order is
// placed.
type PricingConfig struct {
	ServiceFeeRate    float64 // dine-in service charge (taxa de serviço)
	DeliveryFee       float64 // flat fee added to delivery orders
	HappyHourDiscount float64 // discount applied to drinks during happy hour
	HappyHourStart    int     // hour of day, inclusive
	HappyHourEnd      int     // hour of day, exclusive
	Currency          string
}

// DefaultPricingConfig returns the default pricing configuration
func DefaultPricingConfig() *PricingConfig {
	return &PricingConfig{
		ServiceFeeRate:    0.10, // 10% taxa de serviço
		DeliveryFee:       8.00, // R$ 8.00 flat
		HappyHourDiscount: 0.20, // 20% off drinks
		HappyHourStart:    17,   // 5 PM
		HappyHourEnd:      19,   // 7 PM
		Currency:          "BRL",
	}
}

// Pricer computes line prices and order totals. Prices are snapshotted
// onto the order items, so a later menu edit never reprices a placed
// order.
type Pricer struct {
	config *PricingConfig
}

func NewPricer(config *PricingConfig) *Pricer {
	if config == nil {
		config = DefaultPricingConfig()
	}
	return &Pricer{config: config}
}

func (p *Pricer) Currency() string {
	return p.config.Currency
}

// UnitPrice returns the effective price of one unit at the given time.
func (p *Pricer) UnitPrice(item *domain.MenuItem, placedAt time.Time) float64 {
	price := item.Price
	if item.Category == domain.MenuCategoryDrink && p.inHappyHour(placedAt) {
		price = price * (1 - p.config.HappyHourDiscount)
	}
	return round2(price)
}

// Apply fills Subtotal, ServiceFee, DeliveryFee and Total from the
// order items. Items must already carry their unit prices.
func (p *Pricer) Apply(order *domain.Order) {
	var subtotal float64
	for _, item := range order.Items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}
	order.Subtotal = round2(subtotal)

	order.ServiceFee = 0
	order.DeliveryFee = 0
	switch order.Type {
	case domain.OrderTypeDineIn:
		order.ServiceFee = round2(subtotal * p.config.ServiceFeeRate)
	case domain.OrderTypeDelivery:
		order.DeliveryFee = p.config.DeliveryFee
	}

	order.Total = round2(order.Subtotal + order.ServiceFee + order.DeliveryFee)
	order.Currency = p.config.Currency
}

func (p *Pricer) inHappyHour(t time.Time) bool {
	hour := t.Hour()
	return hour >= p.config.HappyHourStart && hour < p.config.HappyHourEnd
}

// round2 rounds to centavos. Everything user-facing is two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
