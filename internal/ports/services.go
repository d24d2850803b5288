package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/seu-repo/comanda/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

type MenuService interface {
	GetItem(ctx context.Context, id string) (*domain.MenuItem, error)
	ListItems(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error)
	CreateItem(ctx context.Context, item *domain.MenuItem) error
	UpdateItem(ctx context.Context, item *domain.MenuItem) error
	DeleteItem(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) error
	// Catalog returns the available items as seen by the voice
	// pipeline, served from cache when fresh.
	Catalog(ctx context.Context) ([]domain.MenuItem, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	GetHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	AdvanceStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string, reason string) (*domain.Order, error)
}

// CreateOrderRequest carries the order-submission boundary input. Voice
// drafts arrive here after the staff confirms the extracted lines.
type CreateOrderRequest struct {
	UserID          string
	Type            domain.OrderType
	TableNumber     int
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	DeliveryAddress string
	Notes           string
	VoiceOrigin     bool
	Lines           []OrderLineRequest
}

type OrderLineRequest struct {
	MenuItemID string
	Quantity   int
	Modifiers  []string
}

// VoiceOrderService runs the capture -> transcribe -> extract pipeline.
type VoiceOrderService interface {
	// Enabled reports whether a transcription credential was found at
	// startup. When false the voice routes are not mounted.
	Enabled() bool

	StartCapture(ctx context.Context, userID string, permissionGranted bool) (sessionID string, err error)
	PushAudio(ctx context.Context, sessionID string, chunk []byte) error
	StopCapture(ctx context.Context, sessionID string) error
	DiscardCapture(ctx context.Context, sessionID string) error
	// SubmitCapture transcribes the buffered audio and extracts a
	// draft order against the current menu catalog.
	SubmitCapture(ctx context.Context, sessionID string) (*domain.ExtractedOrder, error)

	// TranscribeAndExtract is the one-shot path used by the HTTP
	// endpoint: a finished buffer in, a draft order out.
	TranscribeAndExtract(ctx context.Context, buffer *domain.AudioBuffer) (*domain.ExtractedOrder, error)
}

// SpeechToText is a single-shot transcription provider. One call issues
// exactly one upstream request; the retry policy lives in the gateway
// that wraps it.
type SpeechToText interface {
	Name() string
	Transcribe(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error)
}

// ProviderStatusError carries the HTTP status a speech provider
// returned, letting the gateway separate retryable failures from
// credential problems.
type ProviderStatusError struct {
	Provider string
	Code     int
	Message  string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Message)
}

// EmailService handles email notifications
type EmailService interface {
	// Send sends a generic email
	Send(ctx context.Context, to, subject, body string) error

	// SendHTML sends an HTML email
	SendHTML(ctx context.Context, to, subject, htmlBody string) error

	// SendTemplate sends an email using a template
	SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error

	// SendWelcome sends a welcome email to a new user
	SendWelcome(ctx context.Context, user *domain.User) error

	// SendReceipt sends the order receipt after the order is closed
	SendReceipt(ctx context.Context, toEmail string, order *domain.Order, payment *domain.Payment) error

	// SendOrderReady tells a takeout or delivery customer the kitchen is done
	SendOrderReady(ctx context.Context, toEmail string, order *domain.Order) error

	// SendPasswordReset sends a password reset email
	SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error
}

// PaymentService handles payment processing for orders
type PaymentService interface {
	// CreatePaymentIntent creates a payment intent for client-side confirmation
	CreatePaymentIntent(ctx context.Context, userID string, orderID string, amount float64, currency string) (*domain.PaymentIntent, error)

	// RecordManualPayment records a cash or PIX payment settled at the counter
	RecordManualPayment(ctx context.Context, userID, orderID string, amount float64, method domain.PaymentMethod) (*domain.Payment, error)

	// GetPayment retrieves a payment by ID
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)

	// GetOrderPayments retrieves payments recorded against an order
	GetOrderPayments(ctx context.Context, orderID string) ([]domain.Payment, error)

	// RefundPayment refunds a payment
	RefundPayment(ctx context.Context, paymentID string, amount float64, reason string) (*domain.Refund, error)

	// HandleWebhook handles payment provider webhooks
	HandleWebhook(ctx context.Context, provider string, payload []byte, signature string) error
}

// Cache is the shared key-value cache abstraction.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// SecretSource resolves named secrets. Lookup reports found=false when
// the source has no entry; err is reserved for transport failures.
type SecretSource interface {
	Lookup(ctx context.Context, name string) (value string, found bool, err error)
}

// AdminService exposes the back-office dashboard.
type AdminService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetSalesStats(ctx context.Context, startDate, endDate time.Time) (*SalesStats, error)
	GetUsers(ctx context.Context, filter UserFilter, limit, offset int) ([]domain.User, error)
	UpdateUserStatus(ctx context.Context, userID string, status string) error
	UpdateUserRole(ctx context.Context, userID string, role domain.UserRole) error
	// GenerateReport renders a CSV report: "revenue", "items" or "menu".
	GenerateReport(ctx context.Context, reportType string, startDate, endDate time.Time) ([]byte, error)
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	OpenOrders      int     `json:"open_orders"`
	OrdersPreparing int     `json:"orders_preparing"`
	OrdersReady     int     `json:"orders_ready"`
	TodayOrders     int     `json:"today_orders"`
	TodayRevenue    float64 `json:"today_revenue"`
	ItemsEightySixd int     `json:"items_86d"` // currently unavailable menu items
}

// SalesStats represents aggregated sales over a period
type SalesStats struct {
	TotalRevenue  float64            `json:"total_revenue"`
	OrderCount    int                `json:"order_count"`
	AveragePerTkt float64            `json:"average_per_ticket"`
	TopItems      []ItemSales        `json:"top_items"`
	RevenueByDay  map[string]float64 `json:"revenue_by_day"`
}

// UserFilter for filtering users
type UserFilter struct {
	Status string
	Role   string
	Search string
}
