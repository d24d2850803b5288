package mocks

import (
	"context"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// MockMenuService is a mock implementation of MenuService interface
type MockMenuService struct {
	GetItemFunc         func(ctx context.Context, id string) (*domain.MenuItem, error)
	ListItemsFunc       func(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error)
	CreateItemFunc      func(ctx context.Context, item *domain.MenuItem) error
	UpdateItemFunc      func(ctx context.Context, item *domain.MenuItem) error
	DeleteItemFunc      func(ctx context.Context, id string) error
	SetAvailabilityFunc func(ctx context.Context, id string, available bool) error
	CatalogFunc         func(ctx context.Context) ([]domain.MenuItem, error)
}

func (m *MockMenuService) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMenuService) ListItems(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockMenuService) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	if m.CreateItemFunc != nil {
		return m.CreateItemFunc(ctx, item)
	}
	return nil
}

func (m *MockMenuService) UpdateItem(ctx context.Context, item *domain.MenuItem) error {
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, item)
	}
	return nil
}

func (m *MockMenuService) DeleteItem(ctx context.Context, id string) error {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, id)
	}
	return nil
}

func (m *MockMenuService) SetAvailability(ctx context.Context, id string, available bool) error {
	if m.SetAvailabilityFunc != nil {
		return m.SetAvailabilityFunc(ctx, id, available)
	}
	return nil
}

func (m *MockMenuService) Catalog(ctx context.Context) ([]domain.MenuItem, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc(ctx)
	}
	return nil, nil
}

// MockOrderService is a mock implementation of OrderService interface
type MockOrderService struct {
	CreateOrderFunc    func(ctx context.Context, req *ports.CreateOrderRequest) (*domain.Order, error)
	GetOrderFunc       func(ctx context.Context, id string) (*domain.Order, error)
	GetOpenByTableFunc func(ctx context.Context, tableNumber int) (*domain.Order, error)
	ListByStatusFunc   func(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	GetHistoryFunc     func(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	AdvanceStatusFunc  func(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error)
	CancelOrderFunc    func(ctx context.Context, orderID string, reason string) (*domain.Order, error)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *ports.CreateOrderRequest) (*domain.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderService) GetOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error) {
	if m.GetOpenByTableFunc != nil {
		return m.GetOpenByTableFunc(ctx, tableNumber)
	}
	return nil, nil
}

func (m *MockOrderService) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *MockOrderService) GetHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockOrderService) AdvanceStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	if m.AdvanceStatusFunc != nil {
		return m.AdvanceStatusFunc(ctx, orderID, to)
	}
	return nil, nil
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID string, reason string) (*domain.Order, error) {
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, orderID, reason)
	}
	return nil, nil
}

// MockSpeechToText is a mock implementation of SpeechToText interface
type MockSpeechToText struct {
	NameFunc       func() string
	TranscribeFunc func(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error)
}

func (m *MockSpeechToText) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

func (m *MockSpeechToText) Transcribe(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, buffer, language)
	}
	return &domain.TranscriptionResult{}, nil
}

// MockVoiceOrderService is a mock implementation of VoiceOrderService interface
type MockVoiceOrderService struct {
	EnabledFunc              func() bool
	StartCaptureFunc         func(ctx context.Context, userID string, permissionGranted bool) (string, error)
	PushAudioFunc            func(ctx context.Context, sessionID string, chunk []byte) error
	StopCaptureFunc          func(ctx context.Context, sessionID string) error
	DiscardCaptureFunc       func(ctx context.Context, sessionID string) error
	SubmitCaptureFunc        func(ctx context.Context, sessionID string) (*domain.ExtractedOrder, error)
	TranscribeAndExtractFunc func(ctx context.Context, buffer *domain.AudioBuffer) (*domain.ExtractedOrder, error)
}

func (m *MockVoiceOrderService) Enabled() bool {
	if m.EnabledFunc != nil {
		return m.EnabledFunc()
	}
	return true
}

func (m *MockVoiceOrderService) StartCapture(ctx context.Context, userID string, permissionGranted bool) (string, error) {
	if m.StartCaptureFunc != nil {
		return m.StartCaptureFunc(ctx, userID, permissionGranted)
	}
	return "", nil
}

func (m *MockVoiceOrderService) PushAudio(ctx context.Context, sessionID string, chunk []byte) error {
	if m.PushAudioFunc != nil {
		return m.PushAudioFunc(ctx, sessionID, chunk)
	}
	return nil
}

func (m *MockVoiceOrderService) StopCapture(ctx context.Context, sessionID string) error {
	if m.StopCaptureFunc != nil {
		return m.StopCaptureFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockVoiceOrderService) DiscardCapture(ctx context.Context, sessionID string) error {
	if m.DiscardCaptureFunc != nil {
		return m.DiscardCaptureFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockVoiceOrderService) SubmitCapture(ctx context.Context, sessionID string) (*domain.ExtractedOrder, error) {
	if m.SubmitCaptureFunc != nil {
		return m.SubmitCaptureFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockVoiceOrderService) TranscribeAndExtract(ctx context.Context, buffer *domain.AudioBuffer) (*domain.ExtractedOrder, error) {
	if m.TranscribeAndExtractFunc != nil {
		return m.TranscribeAndExtractFunc(ctx, buffer)
	}
	return nil, nil
}

// MockEmailService is a mock implementation of EmailService interface
type MockEmailService struct {
	SendFunc              func(ctx context.Context, to, subject, body string) error
	SendHTMLFunc          func(ctx context.Context, to, subject, htmlBody string) error
	SendTemplateFunc      func(ctx context.Context, to, templateName string, data map[string]interface{}) error
	SendWelcomeFunc       func(ctx context.Context, user *domain.User) error
	SendReceiptFunc       func(ctx context.Context, toEmail string, order *domain.Order, payment *domain.Payment) error
	SendOrderReadyFunc    func(ctx context.Context, toEmail string, order *domain.Order) error
	SendPasswordResetFunc func(ctx context.Context, user *domain.User, resetToken string) error
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockEmailService) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendHTMLFunc != nil {
		return m.SendHTMLFunc(ctx, to, subject, htmlBody)
	}
	return nil
}

func (m *MockEmailService) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	if m.SendTemplateFunc != nil {
		return m.SendTemplateFunc(ctx, to, templateName, data)
	}
	return nil
}

func (m *MockEmailService) SendWelcome(ctx context.Context, user *domain.User) error {
	if m.SendWelcomeFunc != nil {
		return m.SendWelcomeFunc(ctx, user)
	}
	return nil
}

func (m *MockEmailService) SendReceipt(ctx context.Context, toEmail string, order *domain.Order, payment *domain.Payment) error {
	if m.SendReceiptFunc != nil {
		return m.SendReceiptFunc(ctx, toEmail, order, payment)
	}
	return nil
}

func (m *MockEmailService) SendOrderReady(ctx context.Context, toEmail string, order *domain.Order) error {
	if m.SendOrderReadyFunc != nil {
		return m.SendOrderReadyFunc(ctx, toEmail, order)
	}
	return nil
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error {
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(ctx, user, resetToken)
	}
	return nil
}

// MockPaymentService is a mock implementation of PaymentService interface
type MockPaymentService struct {
	CreatePaymentIntentFunc func(ctx context.Context, userID string, orderID string, amount float64, currency string) (*domain.PaymentIntent, error)
	RecordManualPaymentFunc func(ctx context.Context, userID, orderID string, amount float64, method domain.PaymentMethod) (*domain.Payment, error)
	GetPaymentFunc          func(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetOrderPaymentsFunc    func(ctx context.Context, orderID string) ([]domain.Payment, error)
	RefundPaymentFunc       func(ctx context.Context, paymentID string, amount float64, reason string) (*domain.Refund, error)
	HandleWebhookFunc       func(ctx context.Context, provider string, payload []byte, signature string) error
}

func (m *MockPaymentService) CreatePaymentIntent(ctx context.Context, userID string, orderID string, amount float64, currency string) (*domain.PaymentIntent, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, userID, orderID, amount, currency)
	}
	return nil, nil
}

func (m *MockPaymentService) RecordManualPayment(ctx context.Context, userID, orderID string, amount float64, method domain.PaymentMethod) (*domain.Payment, error) {
	if m.RecordManualPaymentFunc != nil {
		return m.RecordManualPaymentFunc(ctx, userID, orderID, amount, method)
	}
	return nil, nil
}

func (m *MockPaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, paymentID)
	}
	return nil, nil
}

func (m *MockPaymentService) GetOrderPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	if m.GetOrderPaymentsFunc != nil {
		return m.GetOrderPaymentsFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockPaymentService) RefundPayment(ctx context.Context, paymentID string, amount float64, reason string) (*domain.Refund, error) {
	if m.RefundPaymentFunc != nil {
		return m.RefundPaymentFunc(ctx, paymentID, amount, reason)
	}
	return nil, nil
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, provider string, payload []byte, signature string) error {
	if m.HandleWebhookFunc != nil {
		return m.HandleWebhookFunc(ctx, provider, payload, signature)
	}
	return nil
}

// MockSecretSource is a mock implementation of SecretSource interface
type MockSecretSource struct {
	LookupFunc func(ctx context.Context, name string) (string, bool, error)
}

func (m *MockSecretSource) Lookup(ctx context.Context, name string) (string, bool, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, name)
	}
	return "", false, nil
}
