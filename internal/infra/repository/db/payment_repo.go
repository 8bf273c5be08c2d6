package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrPaymentNotFound 付款紀錄不存在
	ErrPaymentNotFound = errors.New("payment not found")
)

type PaymentRepo struct {
	db *DbDao
}

func NewPaymentRepo(db *DbDao) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (s *PaymentRepo) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

func (s *PaymentRepo) GetPaymentByID(ctx context.Context, paymentID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).First(&payment, "payment_id = ?", paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentRepo) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ExistsByOrderID 一張訂單最多一筆未刪除的付款，創建前檢查
func (s *PaymentRepo) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Payment{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (s *PaymentRepo) UpdatePayment(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Save(payment).Error
}

func (s *PaymentRepo) GetAllPayments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).Find(&payments).Error
	return payments, err
}

func (s *PaymentRepo) GetPaymentsByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).Where("status = ?", status).Find(&payments).Error
	return payments, err
}

// GetPaymentsByUserID 透過訂單關聯查用戶的付款紀錄
func (s *PaymentRepo) GetPaymentsByUserID(ctx context.Context, userID int) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.order_id = payments.order_id").
		Where("orders.user_id = ?", userID).
		Find(&payments).Error
	return payments, err
}
