package domain

import "time"

// Notification event kinds
const (
	NotificationLetterReceived  = "LETTER_RECEIVED"
	NotificationCapsuleReceived = "CAPSULE_RECEIVED"
	NotificationFriendRequest   = "FRIEND_REQUEST"
)

// Notification is an in-app notification record for one user.
type Notification struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID            uint64    `gorm:"column:user_id;not null;index" json:"user_id"`
	Type              string    `gorm:"column:type;type:varchar(30);not null" json:"type"`
	Message           string    `gorm:"column:message;type:varchar(255);not null" json:"message"`
	IsRead            bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	RelatedResourceID uint64    `gorm:"column:related_resource_id" json:"related_resource_id,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationSummaryResponse 미확인 알림 개수 응답
type NotificationSummaryResponse struct {
	TotalUnread int `json:"total_unread"`
}
