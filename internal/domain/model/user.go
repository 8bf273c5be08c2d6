package model

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleStaff    UserRole = "STAFF"
	UserRoleAdmin    UserRole = "ADMIN"
)

type User struct {
	UserID      int      `gorm:"primaryKey" json:"user_id"`
	UserName    string   `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail   string   `gorm:"unique;not null;type:varchar(50)" json:"user_email"`
	UserPhone   string   `gorm:"type:varchar(50)" json:"user_phone"`
	UserAddress string   `gorm:"type:varchar(255)" json:"user_address"`
	Role        UserRole `gorm:"not null;type:varchar(20);default:'CUSTOMER'" json:"role"`
	Active      bool     `gorm:"not null;default:true" json:"active"`
	Orders      []Order  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
	BaseModel
}
