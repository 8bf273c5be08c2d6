package model

type CartStatus string

const (
	CartStatusActive CartStatus = "ACTIVE"
)

type Cart struct {
	CartID uint       `gorm:"primaryKey" json:"cart_id"`
	UserID int        `gorm:"not null;uniqueIndex" json:"user_id"` // 外鍵，關聯到 User，一個用戶一個購物車
	Status CartStatus `gorm:"not null;type:varchar(20);default:'ACTIVE'" json:"status"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // 一對多，級聯刪除
	BaseModel
}

type CartItem struct {
	CartItemID uint   `gorm:"primaryKey" json:"cart_item_id"`
	CartID     uint   `gorm:"not null;index" json:"cart_id"`                  // 外鍵，關聯到 Cart
	BookID     string `gorm:"not null;type:varchar(64);index" json:"book_id"` // 外鍵，關聯到 Book
	Quantity   int    `gorm:"not null" json:"quantity"`
	BaseModel
}
