package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	*require.Assertions

	ctx  context.Context
	repo *OrderRepo
	seq  int
}

func TestOrderRepo(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (s *OrderRepoTestSuite) SetupSuite() {
	s.Assertions = require.New(s.T())
	s.ctx = context.Background()
	s.repo = NewOrderRepo(openTestDB(s.T()))
}

func (s *OrderRepoTestSuite) createOrder(userID int, status model.OrderStatus) *model.Order {
	s.seq++
	order := &model.Order{
		OrderID:     fmt.Sprintf("ord-%d", s.seq),
		UserID:      userID,
		Status:      status,
		TotalAmount: decimal.NewFromFloat(31.50),
		Address:     "台北市信義區",
		Active:      true,
		OrderItems: []model.OrderItem{
			{BookID: "bk-1", Quantity: 2, Price: decimal.NewFromFloat(10.50)},
			{BookID: "bk-2", Quantity: 1, Price: decimal.NewFromFloat(10.50)},
		},
	}
	s.NoError(s.repo.CreateOrder(s.ctx, order))
	return order
}

func (s *OrderRepoTestSuite) TestGetOrderByID() {
	created := s.createOrder(1, model.OrderStatusPending)

	order, err := s.repo.GetOrderByID(s.ctx, created.OrderID)
	s.NoError(err)
	s.Equal(created.OrderID, order.OrderID)
	s.Len(order.OrderItems, 2)
	// 項目依寫入順序回傳
	s.Equal("bk-1", order.OrderItems[0].BookID)
	s.Equal("bk-2", order.OrderItems[1].BookID)
	s.Nil(order.Payment)

	_, err = s.repo.GetOrderByID(s.ctx, "ord-missing")
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderRepoTestSuite) TestUpdateOrderGuarded() {
	created := s.createOrder(1, model.OrderStatusPending)

	err := s.repo.UpdateOrderGuarded(s.ctx, created.OrderID, created.Version, map[string]interface{}{
		"status": model.OrderStatusConfirmed,
	})
	s.NoError(err)

	order, err := s.repo.GetOrderByID(s.ctx, created.OrderID)
	s.NoError(err)
	s.Equal(model.OrderStatusConfirmed, order.Status)
	s.Equal(created.Version+1, order.Version)
}

// 兩個請求都拿到version 0，第二個寫入必須失敗
func (s *OrderRepoTestSuite) TestUpdateOrderGuardedStaleVersion() {
	created := s.createOrder(1, model.OrderStatusPending)

	s.NoError(s.repo.UpdateOrderGuarded(s.ctx, created.OrderID, created.Version, map[string]interface{}{
		"status": model.OrderStatusConfirmed,
	}))

	err := s.repo.UpdateOrderGuarded(s.ctx, created.OrderID, created.Version, map[string]interface{}{
		"status": model.OrderStatusCancelled,
	})
	s.ErrorIs(err, ErrStaleOrderVersion)

	order, err := s.repo.GetOrderByID(s.ctx, created.OrderID)
	s.NoError(err)
	s.Equal(model.OrderStatusConfirmed, order.Status)
}

func (s *OrderRepoTestSuite) TestUpdateOrderGuardedNotFound() {
	err := s.repo.UpdateOrderGuarded(s.ctx, "ord-missing", 0, map[string]interface{}{
		"status": model.OrderStatusConfirmed,
	})
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderRepoTestSuite) TestDeactivateOrder() {
	created := s.createOrder(7, model.OrderStatusPending)

	before, err := s.repo.CountOrders(s.ctx)
	s.NoError(err)

	s.NoError(s.repo.DeactivateOrder(s.ctx, created.OrderID))

	after, err := s.repo.CountOrders(s.ctx)
	s.NoError(err)
	s.Equal(before-1, after)

	orders, err := s.repo.GetAllActiveOrders(s.ctx)
	s.NoError(err)
	for _, o := range orders {
		s.NotEqual(created.OrderID, o.OrderID)
	}

	// 軟刪除，直接查ID還是查得到
	order, err := s.repo.GetOrderByID(s.ctx, created.OrderID)
	s.NoError(err)
	s.False(order.Active)

	s.ErrorIs(s.repo.DeactivateOrder(s.ctx, "ord-missing"), ErrOrderNotFound)
}

func (s *OrderRepoTestSuite) TestGetOrdersByStatus() {
	s.createOrder(2, model.OrderStatusDelivering)
	s.createOrder(2, model.OrderStatusDelivering)

	orders, err := s.repo.GetOrdersByStatus(s.ctx, model.OrderStatusDelivering)
	s.NoError(err)
	s.Len(orders, 2)
	for _, o := range orders {
		s.Equal(model.OrderStatusDelivering, o.Status)
	}
}

func (s *OrderRepoTestSuite) TestGetOrdersByUserID() {
	s.createOrder(42, model.OrderStatusPending)
	s.createOrder(42, model.OrderStatusConfirmed)

	orders, err := s.repo.GetOrdersByUserID(s.ctx, 42)
	s.NoError(err)
	s.Len(orders, 2)
	for _, o := range orders {
		s.Equal(42, o.UserID)
	}
}
