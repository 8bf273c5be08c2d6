package model

import "time"

type Promotion struct {
	PromotionID uint      `gorm:"primaryKey" json:"promotion_id"`
	Content     string    `gorm:"not null;type:varchar(255)" json:"content"`
	Percentage  int       `gorm:"not null" json:"percentage"` // 折扣百分比 1~100
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	BaseModel
}

// IsCurrent 是否在促銷期間內
func (p *Promotion) IsCurrent(now time.Time) bool {
	day := now.Truncate(24 * time.Hour)
	return p.Active && !day.Before(p.StartDate.Truncate(24*time.Hour)) && !day.After(p.EndDate.Truncate(24*time.Hour))
}
