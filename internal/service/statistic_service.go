package service

import (
	"context"
	"errors"
	"sort"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoOrdersStored 沒有任何訂單可統計，呼叫端應視為合法的空狀態
	ErrNoOrdersStored = errors.New("no orders stored")
	// ErrNoUsersStored 沒有任何用戶可統計
	ErrNoUsersStored = errors.New("no users stored")
)

// CustomerSpending 客戶消費統計
type CustomerSpending struct {
	UserID     int             `json:"user_id"`
	UserName   string          `json:"user_name"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// BookSales 書籍銷量統計
type BookSales struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	TotalSold int    `json:"total_sold"`
}

// DailyStat 單日統計，日期為 yyyy-mm-dd
type DailyStat struct {
	Date       string          `json:"date"`
	TotalSales decimal.Decimal `json:"total_sales"`
	OrderCount int64           `json:"order_count"`
}

// OrderStatusCounts 各狀態訂單數，PENDING_PAYMENT 併入 Pending
type OrderStatusCounts struct {
	Pending    int64 `json:"pending"`
	Confirmed  int64 `json:"confirmed"`
	Processing int64 `json:"processing"`
	Delivering int64 `json:"delivering"`
	Delivered  int64 `json:"delivered"`
	Cancelled  int64 `json:"cancelled"`
}

type IStatisticService interface {
	GetTopCustomers(ctx context.Context, limit int) ([]CustomerSpending, error)
	GetTopBooks(ctx context.Context, limit int) ([]BookSales, error)
	GetTotalRevenue(ctx context.Context) (decimal.Decimal, error)
	GetTotalOrders(ctx context.Context) (int64, error)
	GetTotalCustomers(ctx context.Context) (int64, error)
	GetSalesOverTime(ctx context.Context) ([]DailyStat, error)
	GetOrdersOverTime(ctx context.Context) ([]DailyStat, error)
	GetOrderStatusCounts(ctx context.Context) (*OrderStatusCounts, error)
}

// StatisticService 唯讀聚合，只看 active=true 的訂單
// 營收類指標只計 DELIVERED
type StatisticService struct {
	store db.UnifiedDB
}

func NewStatisticService(store db.UnifiedDB) *StatisticService {
	return &StatisticService{store: store}
}

// GetTopCustomers 依 DELIVERED 訂單總消費排序取前 limit 名
// 同額排序為穩定順序(UserID遞增)
func (s *StatisticService) GetTopCustomers(ctx context.Context, limit int) ([]CustomerSpending, error) {
	orders, err := s.deliveredOrders(ctx)
	if err != nil {
		return nil, err
	}

	spent := make(map[int]decimal.Decimal)
	for _, order := range orders {
		spent[order.UserID] = spentOrZero(spent, order.UserID).Add(order.TotalAmount)
	}

	result := make([]CustomerSpending, 0, len(spent))
	for userID, total := range spent {
		user, err := s.store.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		result = append(result, CustomerSpending{
			UserID:     userID,
			UserName:   user.UserName,
			TotalSpent: total,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalSpent.Equal(result[j].TotalSpent) {
			return result[i].UserID < result[j].UserID
		}
		return result[i].TotalSpent.GreaterThan(result[j].TotalSpent)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetTopBooks 依 DELIVERED 訂單項目銷量排序取前 limit 名
func (s *StatisticService) GetTopBooks(ctx context.Context, limit int) ([]BookSales, error) {
	orders, err := s.deliveredOrders(ctx)
	if err != nil {
		return nil, err
	}

	sold := make(map[string]int)
	for _, order := range orders {
		for _, item := range order.OrderItems {
			sold[item.BookID] += item.Quantity
		}
	}

	result := make([]BookSales, 0, len(sold))
	for bookID, total := range sold {
		book, err := s.store.GetBookByID(ctx, bookID)
		if err != nil {
			return nil, err
		}
		result = append(result, BookSales{
			BookID:    bookID,
			Title:     book.Title,
			TotalSold: total,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalSold == result[j].TotalSold {
			return result[i].BookID < result[j].BookID
		}
		return result[i].TotalSold > result[j].TotalSold
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *StatisticService) GetTotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	orders, err := s.deliveredOrders(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.TotalAmount)
	}
	return total, nil
}

func (s *StatisticService) GetTotalOrders(ctx context.Context) (int64, error) {
	count, err := s.store.CountOrders(ctx)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoOrdersStored
	}
	return count, nil
}

// GetTotalCustomers 計算 active 且角色為 CUSTOMER 的用戶數
func (s *StatisticService) GetTotalCustomers(ctx context.Context) (int64, error) {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoUsersStored
	}

	customers, err := s.store.GetUsersByRole(ctx, model.UserRoleCustomer)
	if err != nil {
		return 0, err
	}
	return int64(len(customers)), nil
}

// GetSalesOverTime 每日銷售額(只計DELIVERED)，日期遞增
func (s *StatisticService) GetSalesOverTime(ctx context.Context) ([]DailyStat, error) {
	orders, err := s.deliveredOrders(ctx)
	if err != nil {
		return nil, err
	}

	sales := make(map[string]decimal.Decimal)
	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		if cur, ok := sales[day]; ok {
			sales[day] = cur.Add(order.TotalAmount)
		} else {
			sales[day] = order.TotalAmount
		}
	}

	return sortedDailyStats(sales, nil), nil
}

// GetOrdersOverTime 每日訂單數(全部active訂單)，日期遞增
func (s *StatisticService) GetOrdersOverTime(ctx context.Context) ([]DailyStat, error) {
	orders, err := s.activeOrders(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, order := range orders {
		counts[order.CreatedAt.Format("2006-01-02")]++
	}

	return sortedDailyStats(nil, counts), nil
}

func (s *StatisticService) GetOrderStatusCounts(ctx context.Context) (*OrderStatusCounts, error) {
	orders, err := s.activeOrders(ctx)
	if err != nil {
		return nil, err
	}

	counts := &OrderStatusCounts{}
	for _, order := range orders {
		switch order.Status {
		case model.OrderStatusPending, model.OrderStatusPendingPayment:
			counts.Pending++
		case model.OrderStatusConfirmed:
			counts.Confirmed++
		case model.OrderStatusProcessing:
			counts.Processing++
		case model.OrderStatusDelivering:
			counts.Delivering++
		case model.OrderStatusDelivered:
			counts.Delivered++
		case model.OrderStatusCancelled:
			counts.Cancelled++
		}
	}
	return counts, nil
}

func (s *StatisticService) activeOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.store.GetAllActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNoOrdersStored
	}
	return orders, nil
}

func (s *StatisticService) deliveredOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.activeOrders(ctx)
	if err != nil {
		return nil, err
	}

	delivered := orders[:0]
	for _, order := range orders {
		if order.Status == model.OrderStatusDelivered {
			delivered = append(delivered, order)
		}
	}
	return delivered, nil
}

func spentOrZero(m map[int]decimal.Decimal, userID int) decimal.Decimal {
	if v, ok := m[userID]; ok {
		return v
	}
	return decimal.Zero
}

func sortedDailyStats(sales map[string]decimal.Decimal, counts map[string]int64) []DailyStat {
	days := make(map[string]struct{})
	for day := range sales {
		days[day] = struct{}{}
	}
	for day := range counts {
		days[day] = struct{}{}
	}

	result := make([]DailyStat, 0, len(days))
	for day := range days {
		stat := DailyStat{Date: day, TotalSales: decimal.Zero}
		if v, ok := sales[day]; ok {
			stat.TotalSales = v
		}
		if v, ok := counts[day]; ok {
			stat.OrderCount = v
		}
		result = append(result, stat)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}
