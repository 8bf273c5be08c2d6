package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "COD"   // 貨到付款
	PaymentMethodVNPay PaymentMethod = "VNPAY" // 線上支付
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusRefunding PaymentStatus = "REFUNDING"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	PaymentID string          `gorm:"primaryKey;type:varchar(64)" json:"payment_id"`
	OrderID   string          `gorm:"not null;type:varchar(64);uniqueIndex" json:"order_id"` // 一對一，一張訂單最多一筆付款
	Method    PaymentMethod   `gorm:"not null;type:varchar(20)" json:"method"`
	Status    PaymentStatus   `gorm:"not null;type:varchar(20);default:'PENDING'" json:"status"`
	Amount    decimal.Decimal `gorm:"not null;type:decimal(16,2)" json:"amount"` // 訂單金額換匯後的快照
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	BaseModel
}
