package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrBookNotActive   = errors.New("book is not active")
)

type ICartService interface {
	GetMyCart(ctx context.Context, userID int) (*model.Cart, error)
	AddItem(ctx context.Context, userID int, bookID string, quantity int) (*model.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID int, bookID string, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID int, bookID string) (*model.Cart, error)
	ClearCart(ctx context.Context, userID int) error
}

type CartService struct {
	store db.UnifiedDB
}

func NewCartService(store db.UnifiedDB) *CartService {
	return &CartService{store: store}
}

// GetMyCart 取用戶的 active 購物車，沒有就建一個空的
func (c *CartService) GetMyCart(ctx context.Context, userID int) (*model.Cart, error) {
	cart, err := c.store.GetActiveCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, db.ErrCartNotFound) {
		return nil, err
	}

	if _, err := c.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	cart = &model.Cart{UserID: userID, Status: model.CartStatusActive}
	if err := c.store.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem 加入購物車，已存在同書籍則合併數量
// 這裡只檢查即時庫存夠不夠，不做扣減，扣減在出貨時
func (c *CartService) AddItem(ctx context.Context, userID int, bookID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := c.GetMyCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = c.store.Transaction(ctx, func(store db.UnifiedDB) error {
		book, err := store.GetBookByID(ctx, bookID)
		if err != nil {
			return err
		}
		if !book.Active {
			return ErrBookNotActive
		}

		existing, err := store.GetCartItem(ctx, cart.CartID, bookID)
		if err != nil && !errors.Is(err, db.ErrCartItemNotFound) {
			return err
		}

		want := quantity
		if existing != nil {
			want += existing.Quantity
		}
		if book.StockQuantity < want {
			return fmt.Errorf("book %s: %w", bookID, db.ErrInsufficientStock)
		}

		if existing != nil {
			return store.UpdateCartItemQuantity(ctx, existing.CartItemID, want)
		}
		return store.AddCartItem(ctx, &model.CartItem{
			CartID:   cart.CartID,
			BookID:   bookID,
			Quantity: quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	return c.store.GetActiveCartByUserID(ctx, userID)
}

// UpdateItemQuantity 調整購物車項目數量
func (c *CartService) UpdateItemQuantity(ctx context.Context, userID int, bookID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := c.store.GetActiveCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = c.store.Transaction(ctx, func(store db.UnifiedDB) error {
		item, err := store.GetCartItem(ctx, cart.CartID, bookID)
		if err != nil {
			return err
		}
		book, err := store.GetBookByID(ctx, bookID)
		if err != nil {
			return err
		}
		if book.StockQuantity < quantity {
			return fmt.Errorf("book %s: %w", bookID, db.ErrInsufficientStock)
		}
		return store.UpdateCartItemQuantity(ctx, item.CartItemID, quantity)
	})
	if err != nil {
		return nil, err
	}

	return c.store.GetActiveCartByUserID(ctx, userID)
}

func (c *CartService) RemoveItem(ctx context.Context, userID int, bookID string) (*model.Cart, error) {
	cart, err := c.store.GetActiveCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := c.store.GetCartItem(ctx, cart.CartID, bookID)
	if err != nil {
		return nil, err
	}
	if err := c.store.DeleteCartItem(ctx, item.CartItemID); err != nil {
		return nil, err
	}

	return c.store.GetActiveCartByUserID(ctx, userID)
}

func (c *CartService) ClearCart(ctx context.Context, userID int) error {
	cart, err := c.store.GetActiveCartByUserID(ctx, userID)
	if err != nil {
		return err
	}
	_, err = c.store.DrainCartItems(ctx, cart.CartID)
	return err
}

var _ ICartService = (*CartService)(nil)
