package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrCartNotFound 購物車不存在
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound 購物車項目不存在
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

func (s *CartRepo) CreateCart(ctx context.Context, cart *model.Cart) error {
	return s.db.WithContext(ctx).Create(cart).Error
}

// GetActiveCartByUserID 取用戶的 active 購物車，項目依加入順序排序
func (s *CartRepo) GetActiveCartByUserID(ctx context.Context, userID int) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("cart_items.cart_item_id ASC")
		}).
		First(&cart, "user_id = ? AND status = ?", userID, model.CartStatusActive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (s *CartRepo) GetCartItem(ctx context.Context, cartID uint, bookID string) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		First(&item, "cart_id = ? AND book_id = ?", cartID, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *CartRepo) AddCartItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *CartRepo) UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) error {
	res := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_item_id = ?", cartItemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartRepo) DeleteCartItem(ctx context.Context, cartItemID uint) error {
	return s.db.WithContext(ctx).
		Where("cart_item_id = ?", cartItemID).
		Delete(&model.CartItem{}).Error
}

// DrainCartItems 取出並清空購物車全部項目，回傳加入順序
// 必須在建立訂單的同一個事務內呼叫，要嘛全部轉成訂單，要嘛購物車原封不動
func (s *CartRepo) DrainCartItems(ctx context.Context, cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("cart_item_id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	err = s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetForeignActiveCartItems 取其他 active 購物車中引用指定書籍的項目
// 跨購物車調整用：某用戶下單後，其他人的購物車數量要依剩餘庫存收斂
func (s *CartRepo) GetForeignActiveCartItems(ctx context.Context, excludeCartID uint, bookIDs []string) ([]model.CartItem, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Joins("JOIN carts ON carts.cart_id = cart_items.cart_id").
		Where("carts.status = ? AND cart_items.cart_id <> ? AND cart_items.book_id IN ?",
			model.CartStatusActive, excludeCartID, bookIDs).
		Order("cart_items.cart_item_id ASC").
		Find(&items).Error
	return items, err
}
