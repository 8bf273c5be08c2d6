package model

import "time"

type NotificationType string

const (
	NotificationForStaffs           NotificationType = "FOR_STAFFS"             // 廣播給所有 STAFF
	NotificationForAdmins           NotificationType = "FOR_ADMINS"             // 廣播給所有 ADMIN
	NotificationForCustomerPersonal NotificationType = "FOR_CUSTOMERS_PERSONAL" // 指定單一用戶
)

// Notification 通知訊息本體，核心只負責組裝與觸發，投遞由外部 sink 處理
type Notification struct {
	TargetUserID int              `json:"target_user_id,omitempty"` // 廣播訊息時為 0
	Type         NotificationType `json:"type"`
	Content      string           `json:"content"`
	CreatedAt    time.Time        `json:"created_at"`
}

// IsBroadcast 依角色廣播，而非指定用戶
func (n Notification) IsBroadcast() bool {
	return n.Type == NotificationForStaffs || n.Type == NotificationForAdmins
}
