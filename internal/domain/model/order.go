package model

import (
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT" // 待付款
	OrderStatusPending        OrderStatus = "PENDING"         // 待確認
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"       // 已確認
	OrderStatusProcessing     OrderStatus = "PROCESSING"      // 處理中
	OrderStatusDelivering     OrderStatus = "DELIVERING"      // 配送中
	OrderStatusDelivered      OrderStatus = "DELIVERED"       // 已送達
	OrderStatusCancelled      OrderStatus = "CANCELLED"       // 已取消
)

// IsTerminal 已送達與已取消為終態
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	OrderID      string          `gorm:"primaryKey;type:varchar(64)" json:"order_id"`
	UserID       int             `gorm:"not null;index" json:"user_id"` // 外鍵，關聯到 User
	Status       OrderStatus     `gorm:"not null;type:varchar(20);default:'PENDING'" json:"status"`
	TotalAmount  decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_amount"` // 建單時快照，之後不變
	Address      string          `gorm:"not null;type:varchar(255)" json:"address"`
	CancelReason string          `gorm:"type:varchar(500)" json:"cancel_reason"`
	Active       bool            `gorm:"not null;default:true" json:"active"`                               // 唯一的刪除語義，不做硬刪除
	Version      int             `gorm:"not null;default:0" json:"-"`                                       // 樂觀鎖，狀態轉移用
	OrderItems   []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"` // 一對多，級聯刪除
	Payment      *Payment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`                       // 一對一
	BaseModel
}

type OrderItem struct {
	OrderItemID uint            `gorm:"primaryKey" json:"order_item_id"`
	OrderID     string          `gorm:"not null;type:varchar(64);index" json:"order_id"` // 外鍵，關聯到 Order
	BookID      string          `gorm:"not null;type:varchar(64);index" json:"book_id"`  // 外鍵，關聯到 Book
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"` // 建單時的單價快照
	BaseModel
}
