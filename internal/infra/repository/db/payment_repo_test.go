package db

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PaymentRepoTestSuite struct {
	suite.Suite
	*require.Assertions

	ctx       context.Context
	repo      *PaymentRepo
	orderRepo *OrderRepo
}

func TestPaymentRepo(t *testing.T) {
	suite.Run(t, new(PaymentRepoTestSuite))
}

func (s *PaymentRepoTestSuite) SetupSuite() {
	s.Assertions = require.New(s.T())
	s.ctx = context.Background()

	dao := openTestDB(s.T())
	s.repo = NewPaymentRepo(dao)
	s.orderRepo = NewOrderRepo(dao)
}

func (s *PaymentRepoTestSuite) createPayment(paymentID, orderID string) *model.Payment {
	payment := &model.Payment{
		PaymentID: paymentID,
		OrderID:   orderID,
		Method:    model.PaymentMethodCOD,
		Status:    model.PaymentStatusPending,
		Amount:    decimal.NewFromInt(830182),
	}
	s.NoError(s.repo.CreatePayment(s.ctx, payment))
	return payment
}

func (s *PaymentRepoTestSuite) TestGetPaymentByID() {
	s.createPayment("pay-1", "ord-1")

	payment, err := s.repo.GetPaymentByID(s.ctx, "pay-1")
	s.NoError(err)
	s.Equal("ord-1", payment.OrderID)

	_, err = s.repo.GetPaymentByID(s.ctx, "pay-missing")
	s.ErrorIs(err, ErrPaymentNotFound)
}

func (s *PaymentRepoTestSuite) TestGetPaymentByOrderID() {
	s.createPayment("pay-2", "ord-2")

	payment, err := s.repo.GetPaymentByOrderID(s.ctx, "ord-2")
	s.NoError(err)
	s.Equal("pay-2", payment.PaymentID)

	_, err = s.repo.GetPaymentByOrderID(s.ctx, "ord-missing")
	s.ErrorIs(err, ErrPaymentNotFound)
}

func (s *PaymentRepoTestSuite) TestExistsByOrderID() {
	s.createPayment("pay-3", "ord-3")

	exists, err := s.repo.ExistsByOrderID(s.ctx, "ord-3")
	s.NoError(err)
	s.True(exists)

	exists, err = s.repo.ExistsByOrderID(s.ctx, "ord-missing")
	s.NoError(err)
	s.False(exists)
}

func (s *PaymentRepoTestSuite) TestGetPaymentsByStatus() {
	payment := s.createPayment("pay-4", "ord-4")

	payment.Status = model.PaymentStatusRefunding
	s.NoError(s.repo.UpdatePayment(s.ctx, payment))

	payments, err := s.repo.GetPaymentsByStatus(s.ctx, model.PaymentStatusRefunding)
	s.NoError(err)
	s.Len(payments, 1)
	s.Equal("pay-4", payments[0].PaymentID)
}

func (s *PaymentRepoTestSuite) TestGetPaymentsByUserID() {
	order := &model.Order{
		OrderID:     "ord-join",
		UserID:      55,
		Status:      model.OrderStatusDelivered,
		TotalAmount: decimal.NewFromInt(100),
		Address:     "高雄市前鎮區",
		Active:      true,
	}
	s.NoError(s.orderRepo.CreateOrder(s.ctx, order))
	s.createPayment("pay-join", "ord-join")

	payments, err := s.repo.GetPaymentsByUserID(s.ctx, 55)
	s.NoError(err)
	s.Len(payments, 1)
	s.Equal("pay-join", payments[0].PaymentID)

	payments, err = s.repo.GetPaymentsByUserID(s.ctx, 56)
	s.NoError(err)
	s.Empty(payments)
}
