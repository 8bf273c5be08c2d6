package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrPaymentAlreadyExists           = errors.New("payment already exists for this order")
	ErrOrderCancelled                 = errors.New("order is cancelled")
	ErrInvalidPaymentStatusTransition = errors.New("invalid payment status transition")
)

// allowedPaymentTransitions 付款狀態轉移表
// PENDING -> SUCCESS -> REFUNDING -> REFUNDED
var allowedPaymentTransitions = map[model.PaymentStatus]model.PaymentStatus{
	model.PaymentStatusPending:   model.PaymentStatusSuccess,
	model.PaymentStatusSuccess:   model.PaymentStatusRefunding,
	model.PaymentStatusRefunding: model.PaymentStatusRefunded,
}

type IPaymentService interface {
	CreatePayment(ctx context.Context, orderID string, userID int, method model.PaymentMethod) (*model.Payment, error)
	MarkPaymentDone(ctx context.Context, paymentID string) (*model.Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID string, status model.PaymentStatus) (*model.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	GetAllPayments(ctx context.Context) ([]model.Payment, error)
	GetPaymentsByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error)
	GetPaymentsByUserID(ctx context.Context, userID int) ([]model.Payment, error)
}

type PaymentService struct {
	store db.UnifiedDB
	// currencyRate 建立付款時套用的固定換匯乘數，金額在此刻快照
	currencyRate decimal.Decimal
}

func NewPaymentService(store db.UnifiedDB, currencyRate decimal.Decimal) *PaymentService {
	return &PaymentService{store: store, currencyRate: currencyRate}
}

/*
CreatePayment 為訂單建立付款紀錄

一張訂單最多一筆付款，已取消的訂單不能建立付款，
只有訂單擁有者能建立。COD 當場標記 SUCCESS，
其他付款方式停在 PENDING 等外部確認(MarkPaymentDone)。
*/
func (p *PaymentService) CreatePayment(ctx context.Context, orderID string, userID int, method model.PaymentMethod) (*model.Payment, error) {
	var payment *model.Payment
	err := p.store.Transaction(ctx, func(store db.UnifiedDB) error {
		order, err := store.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return ErrUnauthorized
		}

		exists, err := store.ExistsByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return ErrPaymentAlreadyExists
		}
		if order.Status == model.OrderStatusCancelled {
			return ErrOrderCancelled
		}

		payment = &model.Payment{
			PaymentID: util.GeneratePaymentID(),
			OrderID:   orderID,
			Method:    method,
			Status:    model.PaymentStatusPending,
			Amount:    order.TotalAmount.Mul(p.currencyRate),
		}
		if method == model.PaymentMethodCOD {
			now := time.Now().UTC()
			payment.Status = model.PaymentStatusSuccess
			payment.PaidAt = &now
		}
		return store.CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", orderID).
		Str("method", string(payment.Method)).
		Str("status", string(payment.Status)).
		Msg("payment created")

	return payment, nil
}

// MarkPaymentDone 外部支付閘道確認完成後的回呼，PENDING -> SUCCESS
func (p *PaymentService) MarkPaymentDone(ctx context.Context, paymentID string) (*model.Payment, error) {
	return p.UpdatePaymentStatus(ctx, paymentID, model.PaymentStatusSuccess)
}

// UpdatePaymentStatus 依轉移表推進付款狀態，表上沒有的轉移一律拒絕
func (p *PaymentService) UpdatePaymentStatus(ctx context.Context, paymentID string, status model.PaymentStatus) (*model.Payment, error) {
	var payment *model.Payment
	err := p.store.Transaction(ctx, func(store db.UnifiedDB) error {
		var err error
		payment, err = store.GetPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if allowedPaymentTransitions[payment.Status] != status {
			return fmt.Errorf("%s -> %s: %w", payment.Status, status, ErrInvalidPaymentStatusTransition)
		}

		payment.Status = status
		if status == model.PaymentStatusSuccess {
			now := time.Now().UTC()
			payment.PaidAt = &now
		}
		return store.UpdatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", paymentID).
		Str("status", string(status)).
		Msg("payment status updated")

	return payment, nil
}

func (p *PaymentService) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	return p.store.GetPaymentByID(ctx, paymentID)
}

func (p *PaymentService) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	return p.store.GetPaymentByOrderID(ctx, orderID)
}

func (p *PaymentService) GetAllPayments(ctx context.Context) ([]model.Payment, error) {
	return p.store.GetAllPayments(ctx)
}

func (p *PaymentService) GetPaymentsByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	return p.store.GetPaymentsByStatus(ctx, status)
}

func (p *PaymentService) GetPaymentsByUserID(ctx context.Context, userID int) ([]model.Payment, error) {
	if _, err := p.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return p.store.GetPaymentsByUserID(ctx, userID)
}

var _ IPaymentService = (*PaymentService)(nil)
