package model

import (
	"github.com/shopspring/decimal"
)

type Book struct {
	BookID        string          `gorm:"primaryKey;type:varchar(64)" json:"book_id"`
	Title         string          `gorm:"not null;type:varchar(255)" json:"title"`
	Author        string          `gorm:"type:varchar(100)" json:"author"`
	Price         decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	Category      string          `gorm:"type:varchar(50)" json:"category"`
	Description   string          `gorm:"type:text" json:"description"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	OrderItems    []OrderItem     `gorm:"foreignKey:BookID" json:"-"`
	BaseModel
}
