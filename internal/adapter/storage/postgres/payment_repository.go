package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type PaymentRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, log *zap.Logger) ports.PaymentRepository {
	return &PaymentRepository{
		db:  db,
		log: log,
	}
}

func (r *PaymentRepository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	result := r.db.WithContext(ctx).Save(payment)
	if result.Error != nil {
		r.log.Error("Failed to save payment", zap.String("payment_id", payment.ID), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *PaymentRepository) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetPaymentByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "provider_id = ?", providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetPaymentsByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at asc").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) GetPaymentsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) SaveRefund(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Save(refund).Error
}

func (r *PaymentRepository) GetRefundsByPayment(ctx context.Context, paymentID string) ([]domain.Refund, error) {
	var refunds []domain.Refund
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("created_at asc").Find(&refunds).Error
	return refunds, err
}
