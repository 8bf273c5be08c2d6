package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrStaleOrderVersion 版本過期，狀態轉移被併發請求搶先
	ErrStaleOrderVersion = errors.New("stale order version")
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單，連同訂單項目一起寫入
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// Read - 根據ID查詢訂單，預載訂單項目與付款
func (s *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.order_item_id ASC")
		}).
		Preload("Payment").
		First(&order, "order_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems").Preload("Payment").
		Where("user_id = ? AND active = ?", userID, true).
		Find(&orders).Error
	return orders, err
}

// Read - 查詢所有 active 訂單
func (s *OrderRepo) GetAllActiveOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems").Preload("Payment").
		Where("active = ?", true).
		Find(&orders).Error
	return orders, err
}

// Read - 根據狀態查詢訂單
func (s *OrderRepo) GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems").Preload("Payment").
		Where("status = ? AND active = ?", status, true).
		Find(&orders).Error
	return orders, err
}

// Update - 更新訂單
func (s *OrderRepo) UpdateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Save(order).Error
}

// UpdateOrderGuarded 樂觀鎖條件更新
// 以載入時的 version 為條件，version+1 後寫入，RowsAffected 為 0 表示
// 有併發請求先改了這張訂單，回傳 ErrStaleOrderVersion 讓呼叫端整個事務回滾
func (s *OrderRepo) UpdateOrderGuarded(ctx context.Context, orderID string, version int, updates map[string]interface{}) error {
	updates["version"] = version + 1
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ? AND version = ?", orderID, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetOrderByID(ctx, orderID); err != nil {
			return err
		}
		return ErrStaleOrderVersion
	}
	return nil
}

// DeactivateOrder 軟刪除，active=false 是唯一的刪除語義
func (s *OrderRepo) DeactivateOrder(ctx context.Context, orderID string) error {
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CountOrders 統計用，含全部 active 訂單
func (s *OrderRepo) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, err
}
