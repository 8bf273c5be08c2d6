package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StatisticServiceTestSuite struct {
	suite.Suite
	*require.Assertions

	ctx   context.Context
	store db.UnifiedDB
	stats *StatisticService
	seq   int

	day1 time.Time
	day2 time.Time
	day3 time.Time
}

func TestStatisticService(t *testing.T) {
	suite.Run(t, new(StatisticServiceTestSuite))
}

func (s *StatisticServiceTestSuite) SetupTest() {
	s.Assertions = require.New(s.T())
	s.ctx = context.Background()
	s.store = newTestStore(s.T())
	s.stats = NewStatisticService(s.store)

	s.day1 = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	s.day2 = time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)
	s.day3 = time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)

	s.seedUser(1, "alice", model.UserRoleCustomer)
	s.seedUser(2, "bob", model.UserRoleCustomer)
	s.seedUser(3, "carol", model.UserRoleStaff)
	s.seedUser(4, "dave", model.UserRoleCustomer)

	s.seedBook("bk-go", "The Go Programming Language")
	s.seedBook("bk-db", "Designing Data-Intensive Applications")

	// day1: alice 100 (bk-go x2)，bob 250 (bk-go x1, bk-db x5)，都已送達
	s.seedOrder(1, model.OrderStatusDelivered, "100", s.day1, true,
		model.OrderItem{BookID: "bk-go", Quantity: 2, Price: decimal.NewFromInt(50)})
	s.seedOrder(2, model.OrderStatusDelivered, "250", s.day1, true,
		model.OrderItem{BookID: "bk-go", Quantity: 1, Price: decimal.NewFromInt(50)},
		model.OrderItem{BookID: "bk-db", Quantity: 5, Price: decimal.NewFromInt(40)})
	// day2: alice 50 已送達，alice 999 還在待確認
	s.seedOrder(1, model.OrderStatusDelivered, "50", s.day2, true,
		model.OrderItem{BookID: "bk-db", Quantity: 1, Price: decimal.NewFromInt(50)})
	s.seedOrder(1, model.OrderStatusPending, "999", s.day2, true)
	// day3: bob 取消，dave 250 已送達，另一張待付款
	s.seedOrder(2, model.OrderStatusCancelled, "77", s.day3, true)
	s.seedOrder(4, model.OrderStatusDelivered, "250", s.day3, true)
	s.seedOrder(4, model.OrderStatusPendingPayment, "10", s.day3, true)
	// 已下架(軟刪除)的訂單不列入任何統計
	s.seedOrder(2, model.OrderStatusDelivered, "1000", s.day3, false)
}

func (s *StatisticServiceTestSuite) seedUser(id int, name string, role model.UserRole) {
	_, err := s.store.CreateUser(s.ctx, &model.User{
		UserID:    id,
		UserName:  name,
		UserEmail: fmt.Sprintf("%s@bookstore.test", name),
		Role:      role,
		Active:    true,
	})
	s.NoError(err)
}

func (s *StatisticServiceTestSuite) seedBook(bookID, title string) {
	s.NoError(s.store.CreateBook(s.ctx, &model.Book{
		BookID:        bookID,
		Title:         title,
		Price:         decimal.NewFromInt(50),
		StockQuantity: 100,
		Active:        true,
	}))
}

func (s *StatisticServiceTestSuite) seedOrder(userID int, status model.OrderStatus, total string, createdAt time.Time, active bool, items ...model.OrderItem) {
	s.seq++
	amount, err := decimal.NewFromString(total)
	s.NoError(err)
	s.NoError(s.store.CreateOrder(s.ctx, &model.Order{
		OrderID:     fmt.Sprintf("ord-stat-%d", s.seq),
		UserID:      userID,
		Status:      status,
		TotalAmount: amount,
		Address:     "台中市西屯區",
		Active:      active,
		OrderItems:  items,
		BaseModel:   model.BaseModel{CreatedAt: createdAt},
	}))
}

func (s *StatisticServiceTestSuite) TestGetTopCustomers() {
	result, err := s.stats.GetTopCustomers(s.ctx, 10)
	s.NoError(err)
	s.Len(result, 3)

	// bob 250, dave 250, alice 150；同額依 UserID 遞增
	s.Equal(2, result[0].UserID)
	s.Equal("bob", result[0].UserName)
	s.True(result[0].TotalSpent.Equal(decimal.NewFromInt(250)))
	s.Equal(4, result[1].UserID)
	s.Equal(1, result[2].UserID)
	s.True(result[2].TotalSpent.Equal(decimal.NewFromInt(150)))
}

func (s *StatisticServiceTestSuite) TestGetTopCustomersLimit() {
	result, err := s.stats.GetTopCustomers(s.ctx, 2)
	s.NoError(err)
	s.Len(result, 2)
	s.Equal(2, result[0].UserID)
	s.Equal(4, result[1].UserID)
}

func (s *StatisticServiceTestSuite) TestGetTopBooks() {
	result, err := s.stats.GetTopBooks(s.ctx, 10)
	s.NoError(err)
	s.Len(result, 2)

	// bk-db 賣 6 本，bk-go 賣 3 本，只計已送達
	s.Equal("bk-db", result[0].BookID)
	s.Equal(6, result[0].TotalSold)
	s.Equal("bk-go", result[1].BookID)
	s.Equal(3, result[1].TotalSold)
}

func (s *StatisticServiceTestSuite) TestGetTotalRevenue() {
	revenue, err := s.stats.GetTotalRevenue(s.ctx)
	s.NoError(err)
	// 100 + 250 + 50 + 250，未送達與已下架不計
	s.True(revenue.Equal(decimal.NewFromInt(650)))
}

func (s *StatisticServiceTestSuite) TestGetTotalOrders() {
	count, err := s.stats.GetTotalOrders(s.ctx)
	s.NoError(err)
	s.Equal(int64(7), count)
}

func (s *StatisticServiceTestSuite) TestGetTotalCustomers() {
	count, err := s.stats.GetTotalCustomers(s.ctx)
	s.NoError(err)
	// staff 不算客戶
	s.Equal(int64(3), count)
}

func (s *StatisticServiceTestSuite) TestGetSalesOverTime() {
	result, err := s.stats.GetSalesOverTime(s.ctx)
	s.NoError(err)
	s.Len(result, 3)

	// 日期遞增
	s.Equal("2026-08-01", result[0].Date)
	s.True(result[0].TotalSales.Equal(decimal.NewFromInt(350)))
	s.Equal("2026-08-02", result[1].Date)
	s.True(result[1].TotalSales.Equal(decimal.NewFromInt(50)))
	s.Equal("2026-08-03", result[2].Date)
	s.True(result[2].TotalSales.Equal(decimal.NewFromInt(250)))
}

func (s *StatisticServiceTestSuite) TestGetOrdersOverTime() {
	result, err := s.stats.GetOrdersOverTime(s.ctx)
	s.NoError(err)
	s.Len(result, 3)

	s.Equal("2026-08-01", result[0].Date)
	s.Equal(int64(2), result[0].OrderCount)
	s.Equal("2026-08-02", result[1].Date)
	s.Equal(int64(2), result[1].OrderCount)
	s.Equal("2026-08-03", result[2].Date)
	s.Equal(int64(3), result[2].OrderCount)
}

func (s *StatisticServiceTestSuite) TestGetOrderStatusCounts() {
	counts, err := s.stats.GetOrderStatusCounts(s.ctx)
	s.NoError(err)

	// PENDING_PAYMENT 併入 Pending
	s.Equal(int64(2), counts.Pending)
	s.Equal(int64(0), counts.Confirmed)
	s.Equal(int64(0), counts.Processing)
	s.Equal(int64(0), counts.Delivering)
	s.Equal(int64(4), counts.Delivered)
	s.Equal(int64(1), counts.Cancelled)
}

func (s *StatisticServiceTestSuite) TestEmptyStore() {
	empty := NewStatisticService(newTestStore(s.T()))

	_, err := empty.GetTopCustomers(s.ctx, 10)
	s.ErrorIs(err, ErrNoOrdersStored)
	_, err = empty.GetTopBooks(s.ctx, 10)
	s.ErrorIs(err, ErrNoOrdersStored)
	_, err = empty.GetTotalRevenue(s.ctx)
	s.ErrorIs(err, ErrNoOrdersStored)
	_, err = empty.GetSalesOverTime(s.ctx)
	s.ErrorIs(err, ErrNoOrdersStored)
	_, err = empty.GetOrderStatusCounts(s.ctx)
	s.ErrorIs(err, ErrNoOrdersStored)
	_, err = empty.GetTotalCustomers(s.ctx)
	s.ErrorIs(err, ErrNoUsersStored)

	_, err = empty.GetTotalOrders(s.ctx)
	s.ErrorIs(err, ErrNoOrdersStored)
}
