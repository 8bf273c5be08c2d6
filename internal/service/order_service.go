package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/pkg/util"
	"github.com/shopspring/decimal"
)

var (
	ErrCartEmpty                = errors.New("cart is empty")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrDuplicateStatusUpdate    = errors.New("duplicate status update")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrOrderCannotBeCancelled   = errors.New("order cannot be cancelled")
	ErrOrderCannotChangeAddress = errors.New("order cannot change address")
	ErrCancelReasonRequired     = errors.New("cancel reason is required")
)

// allowedTransitions 狀態機轉移表
// PENDING_PAYMENT/PENDING -> CONFIRMED -> PROCESSING -> DELIVERING -> DELIVERED
// CANCELLED 只能經由 CancelOrder，不走這張表
var allowedTransitions = map[model.OrderStatus]model.OrderStatus{
	model.OrderStatusPendingPayment: model.OrderStatusConfirmed,
	model.OrderStatusPending:        model.OrderStatusConfirmed,
	model.OrderStatusConfirmed:      model.OrderStatusProcessing,
	model.OrderStatusProcessing:     model.OrderStatusDelivering,
	model.OrderStatusDelivering:     model.OrderStatusDelivered,
}

// cancellableStatuses 出貨前(DELIVERING)都允許客戶取消
var cancellableStatuses = map[model.OrderStatus]bool{
	model.OrderStatusPending:    true,
	model.OrderStatusConfirmed:  true,
	model.OrderStatusProcessing: true,
}

type IOrderService interface {
	CreateOrder(ctx context.Context, userID int, address string) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID string, userID int, reason string) (*model.Order, error)
	ChangeOrderAddress(ctx context.Context, orderID string, userID int, newAddress string) (*model.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

type OrderService struct {
	store db.UnifiedDB
	sink  NotificationSink
}

func NewOrderService(store db.UnifiedDB, sink NotificationSink) *OrderService {
	return &OrderService{store: store, sink: sink}
}

/*
CreateOrder 從用戶的 active 購物車建立訂單

建單、清空購物車、跨購物車調整在同一個事務內完成：
要嘛整車轉成訂單，要嘛什麼都沒發生。

庫存在這裡只做預檢不扣減，真正扣減延後到 PROCESSING -> DELIVERING，
出貨前取消就不需要任何還原簿記。
*/
func (o *OrderService) CreateOrder(ctx context.Context, userID int, address string) (*model.Order, error) {
	user, err := o.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var orderID string
	err = o.store.Transaction(ctx, func(store db.UnifiedDB) error {
		cart, err := store.GetActiveCartByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		order := &model.Order{
			OrderID: util.GenerateOrderID(),
			UserID:  userID,
			Status:  model.OrderStatusPending,
			Address: address,
			Active:  true,
		}

		// 單價與總額都在此刻快照，之後書價變動不影響訂單
		total := decimal.Zero
		bookIDs := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			book, err := store.GetBookByID(ctx, item.BookID)
			if err != nil {
				return err
			}
			if book.StockQuantity < item.Quantity {
				return fmt.Errorf("book %s: %w", book.BookID, db.ErrInsufficientStock)
			}
			order.OrderItems = append(order.OrderItems, model.OrderItem{
				OrderID:  order.OrderID,
				BookID:   book.BookID,
				Quantity: item.Quantity,
				Price:    book.Price,
			})
			total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			bookIDs = append(bookIDs, book.BookID)
		}
		order.TotalAmount = total

		if err := store.CreateOrder(ctx, order); err != nil {
			return err
		}
		if _, err := store.DrainCartItems(ctx, cart.CartID); err != nil {
			return err
		}
		if err := reconcileForeignCarts(ctx, store, cart.CartID, bookIDs); err != nil {
			return err
		}

		orderID = order.OrderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf("New order placed by %s. Order ID: %s", user.UserName, orderID)
	broadcastToBackoffice(ctx, o.sink, content)
	fireNotification(ctx, o.sink, model.Notification{
		TargetUserID: userID,
		Type:         model.NotificationForCustomerPersonal,
		Content:      fmt.Sprintf("Your order (ID: %s) has been created and is now pending for confirmation.", orderID),
	})

	return o.store.GetOrderByID(ctx, orderID)
}

func (o *OrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return o.store.GetOrderByID(ctx, orderID)
}

func (o *OrderService) GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error) {
	return o.store.GetOrdersByUserID(ctx, userID)
}

func (o *OrderService) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	return o.store.GetAllActiveOrders(ctx)
}

func (o *OrderService) GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return o.store.GetOrdersByStatus(ctx, status)
}

/*
UpdateOrderStatus 沿狀態機推進一步

同狀態重複更新回傳 ErrDuplicateStatusUpdate，表上沒有的轉移回傳
ErrInvalidStatusTransition，兩者都不動訂單。

副作用：
  - PROCESSING -> DELIVERING：逐項扣庫存，以出貨當下的即時庫存為準，
    任一項不足整個事務回滾，狀態停在 PROCESSING
  - DELIVERING -> DELIVERED：COD 付款自動標記 SUCCESS

寫入走樂觀鎖，兩個併發轉移請求只會有一個成功。
*/
func (o *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error) {
	var order *model.Order
	err := o.store.Transaction(ctx, func(store db.UnifiedDB) error {
		var err error
		order, err = store.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}

		if next == order.Status {
			return ErrDuplicateStatusUpdate
		}
		if allowedTransitions[order.Status] != next {
			return fmt.Errorf("%s -> %s: %w", order.Status, next, ErrInvalidStatusTransition)
		}

		switch next {
		case model.OrderStatusDelivering:
			bookIDs := make([]string, 0, len(order.OrderItems))
			for _, item := range order.OrderItems {
				if err := store.ReserveStock(ctx, item.BookID, item.Quantity); err != nil {
					return err
				}
				bookIDs = append(bookIDs, item.BookID)
			}
			// 庫存剛變動，其他人的購物車要跟著收斂
			if err := reconcileForeignCarts(ctx, store, 0, bookIDs); err != nil {
				return err
			}
		case model.OrderStatusDelivered:
			if order.Payment != nil && order.Payment.Method == model.PaymentMethodCOD &&
				order.Payment.Status != model.PaymentStatusSuccess {
				now := time.Now().UTC()
				order.Payment.Status = model.PaymentStatusSuccess
				order.Payment.PaidAt = &now
				if err := store.UpdatePayment(ctx, order.Payment); err != nil {
					return err
				}
			}
		}

		return store.UpdateOrderGuarded(ctx, orderID, order.Version, map[string]interface{}{
			"status": next,
		})
	})
	if err != nil {
		return nil, err
	}

	if content := statusChangeContent(orderID, next); content != "" {
		fireNotification(ctx, o.sink, model.Notification{
			TargetUserID: order.UserID,
			Type:         model.NotificationForCustomerPersonal,
			Content:      content,
		})
	}

	return o.store.GetOrderByID(ctx, orderID)
}

/*
CancelOrder 客戶取消自己的訂單

只有訂單擁有者能取消，且只允許在 PENDING/CONFIRMED/PROCESSING，
理由必填。若已有成功付款，連動轉為 REFUNDING 並通知後台處理退款。
*/
func (o *OrderService) CancelOrder(ctx context.Context, orderID string, userID int, reason string) (*model.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrCancelReasonRequired
	}

	user, err := o.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var refunding bool
	err = o.store.Transaction(ctx, func(store db.UnifiedDB) error {
		order, err := store.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return ErrUnauthorized
		}
		if !cancellableStatuses[order.Status] {
			return ErrOrderCannotBeCancelled
		}

		if err := store.UpdateOrderGuarded(ctx, orderID, order.Version, map[string]interface{}{
			"status":        model.OrderStatusCancelled,
			"cancel_reason": reason,
		}); err != nil {
			return err
		}

		if order.Payment != nil && order.Payment.Status == model.PaymentStatusSuccess {
			order.Payment.Status = model.PaymentStatusRefunding
			if err := store.UpdatePayment(ctx, order.Payment); err != nil {
				return err
			}
			refunding = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Order ID: %s has been cancelled by the customer %s.", orderID, user.UserName)
	if refunding {
		content = fmt.Sprintf("Order ID: %s has been cancelled by the customer %s. The order had a successful payment, please process the refund.", orderID, user.UserName)
	}
	broadcastToBackoffice(ctx, o.sink, content)
	fireNotification(ctx, o.sink, model.Notification{
		TargetUserID: userID,
		Type:         model.NotificationForCustomerPersonal,
		Content:      fmt.Sprintf("Your order (ID: %s) has been cancelled successfully.", orderID),
	})

	return o.store.GetOrderByID(ctx, orderID)
}

// ChangeOrderAddress 只有訂單擁有者能改地址，且只允許在 PENDING
func (o *OrderService) ChangeOrderAddress(ctx context.Context, orderID string, userID int, newAddress string) (*model.Order, error) {
	user, err := o.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = o.store.Transaction(ctx, func(store db.UnifiedDB) error {
		order, err := store.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return ErrUnauthorized
		}
		if order.Status != model.OrderStatusPending {
			return ErrOrderCannotChangeAddress
		}

		// 走樂觀鎖，避免跟併發的狀態轉移互蓋
		return store.UpdateOrderGuarded(ctx, orderID, order.Version, map[string]interface{}{
			"address": newAddress,
		})
	})
	if err != nil {
		return nil, err
	}

	broadcastToBackoffice(ctx, o.sink,
		fmt.Sprintf("Order ID: %s address has been changed by the customer %s", orderID, user.UserName))
	fireNotification(ctx, o.sink, model.Notification{
		TargetUserID: userID,
		Type:         model.NotificationForCustomerPersonal,
		Content:      fmt.Sprintf("Your order (ID: %s) address has been changed successfully.", orderID),
	})

	return o.store.GetOrderByID(ctx, orderID)
}

// DeleteOrder 軟刪除，訂單不做硬刪除
func (o *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	return o.store.DeactivateOrder(ctx, orderID)
}

// reconcileForeignCarts 跨購物車調整
// 其他 active 購物車引用了剛異動的書籍時，數量收斂到剩餘庫存，庫存歸零則移除
func reconcileForeignCarts(ctx context.Context, store db.UnifiedDB, excludeCartID uint, bookIDs []string) error {
	items, err := store.GetForeignActiveCartItems(ctx, excludeCartID, bookIDs)
	if err != nil || len(items) == 0 {
		return err
	}

	books, err := store.GetBooksByIDs(ctx, bookIDs)
	if err != nil {
		return err
	}
	stock := make(map[string]int, len(books))
	for _, b := range books {
		stock[b.BookID] = b.StockQuantity
	}

	for _, item := range items {
		avail := stock[item.BookID]
		switch {
		case avail <= 0:
			if err := store.DeleteCartItem(ctx, item.CartItemID); err != nil {
				return err
			}
		case item.Quantity > avail:
			if err := store.UpdateCartItemQuantity(ctx, item.CartItemID, avail); err != nil {
				return err
			}
		}
	}
	return nil
}

func statusChangeContent(orderID string, next model.OrderStatus) string {
	switch next {
	case model.OrderStatusConfirmed:
		return fmt.Sprintf("Your order (ID: %s) has been confirmed.", orderID)
	case model.OrderStatusProcessing:
		return fmt.Sprintf("Your order (ID: %s) is being processed.", orderID)
	case model.OrderStatusDelivering:
		return fmt.Sprintf("Your order (ID: %s) is out for delivery (DELIVERING) and cannot be cancelled now.", orderID)
	case model.OrderStatusDelivered:
		return fmt.Sprintf("Your order (ID: %s) has been delivered by shipper.", orderID)
	}
	return ""
}

var _ IOrderService = (*OrderService)(nil)
