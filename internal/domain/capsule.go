package domain

import "time"

// CapsuleType filters capsule list queries.
type CapsuleType string

const (
	CapsuleTypeAll      CapsuleType = "all"
	CapsuleTypeReceived CapsuleType = "received"
	CapsuleTypeSent     CapsuleType = "sent"
	CapsuleTypeOpened   CapsuleType = "opened"
)

// Valid reports whether t is a known capsule filter.
func (t CapsuleType) Valid() bool {
	switch t {
	case CapsuleTypeAll, CapsuleTypeReceived, CapsuleTypeSent, CapsuleTypeOpened:
		return true
	}
	return false
}

// TimeCapsule is a message that the receiver may open only after OpenAt.
// The sender can read it at any time. Same dual-party soft delete as letters.
type TimeCapsule struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID          uint64    `gorm:"column:sender_id;not null;index" json:"sender_id"`
	ReceiverID        uint64    `gorm:"column:receiver_id;not null;index" json:"receiver_id"`
	Title             string    `gorm:"column:title;type:varchar(100);not null" json:"title"`
	Content           string    `gorm:"column:content;type:text;not null" json:"content"`
	Theme             string    `gorm:"column:theme;type:varchar(50)" json:"theme"`
	ImageURL          string    `gorm:"column:image_url" json:"image_url,omitempty"`
	OpenAt            time.Time `gorm:"column:open_at;not null" json:"open_at"`
	IsNotified        bool      `gorm:"column:is_notified;not null;default:false" json:"-"`
	DeletedBySender   bool      `gorm:"column:deleted_by_sender;not null;default:false" json:"-"`
	DeletedByReceiver bool      `gorm:"column:deleted_by_receiver;not null;default:false" json:"-"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (TimeCapsule) TableName() string { return "time_capsules" }

// GetSenderID implements access.Item
func (c *TimeCapsule) GetSenderID() uint64 { return c.SenderID }

// GetReceiverID implements access.Item
func (c *TimeCapsule) GetReceiverID() uint64 { return c.ReceiverID }

// GetOpenAt implements access.Item
func (c *TimeCapsule) GetOpenAt() *time.Time { return &c.OpenAt }

// PermanentlyDeletable reports whether both parties have soft-deleted the capsule.
func (c *TimeCapsule) PermanentlyDeletable() bool {
	return c.DeletedBySender && c.DeletedByReceiver
}

// CreateCapsuleRequest 타임캡슐 생성 바디
type CreateCapsuleRequest struct {
	ReceiverID uint64    `json:"receiver_id" form:"receiver_id" binding:"required"`
	Title      string    `json:"title" form:"title" binding:"required,max=100"`
	Content    string    `json:"content" form:"content" binding:"required"`
	Theme      string    `json:"theme" form:"theme"`
	OpenAt     time.Time `json:"open_at" form:"open_at" binding:"required" time_format:"2006-01-02T15:04:05"`
}

// CapsuleResponse is one capsule in API responses. Content is withheld while
// the viewer cannot open the capsule yet.
type CapsuleResponse struct {
	CapsuleID  uint64    `json:"capsule_id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	Theme      string    `json:"theme"`
	ImageURL   string    `json:"image_url,omitempty"`
	OpenAt     time.Time `json:"open_at"`
	CanOpen    bool      `json:"can_open"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts a capsule to its API view. canOpen hides the payload
// fields when false.
func (c *TimeCapsule) ToResponse(canOpen bool) *CapsuleResponse {
	resp := &CapsuleResponse{
		CapsuleID:  c.ID,
		SenderID:   c.SenderID,
		ReceiverID: c.ReceiverID,
		Title:      c.Title,
		Theme:      c.Theme,
		OpenAt:     c.OpenAt,
		CanOpen:    canOpen,
		CreatedAt:  c.CreatedAt,
	}
	if canOpen {
		resp.Content = c.Content
		resp.ImageURL = c.ImageURL
	}
	return resp
}
