package domain

import "time"

// Letter is a message delivered immediately on send. Both parties keep an
// independent soft-delete flag; the row is physically removed once both are set.
type Letter struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID          uint64    `gorm:"column:sender_id;not null;index" json:"sender_id"`
	ReceiverID        uint64    `gorm:"column:receiver_id;not null;index" json:"receiver_id"`
	Theme             string    `gorm:"column:theme;type:varchar(50)" json:"theme"`
	Title             string    `gorm:"column:title;type:varchar(100);not null" json:"title"`
	Content           string    `gorm:"column:content;type:text;not null" json:"content"`
	IsRead            bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	DeletedBySender   bool      `gorm:"column:deleted_by_sender;not null;default:false" json:"-"`
	DeletedByReceiver bool      `gorm:"column:deleted_by_receiver;not null;default:false" json:"-"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Letter) TableName() string { return "letters" }

// GetSenderID implements access.Item
func (l *Letter) GetSenderID() uint64 { return l.SenderID }

// GetReceiverID implements access.Item
func (l *Letter) GetReceiverID() uint64 { return l.ReceiverID }

// GetOpenAt implements access.Item; letters carry no time gate.
func (l *Letter) GetOpenAt() *time.Time { return nil }

// PermanentlyDeletable reports whether both parties have soft-deleted the letter.
func (l *Letter) PermanentlyDeletable() bool {
	return l.DeletedBySender && l.DeletedByReceiver
}

// LetterFavorite is a per-user bookmark on a letter (composite key).
type LetterFavorite struct {
	UserID    uint64    `gorm:"column:user_id;primaryKey" json:"user_id"`
	LetterID  uint64    `gorm:"column:letter_id;primaryKey" json:"letter_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LetterFavorite) TableName() string { return "letter_favorites" }

// LetterSendRequest 편지 전송 바디
type LetterSendRequest struct {
	ReceiverID uint64 `json:"receiver_id" binding:"required"`
	Theme      string `json:"theme"`
	Title      string `json:"title" binding:"required,max=100"`
	Content    string `json:"content" binding:"required"`
}

// LetterSendResponse 편지 전송 응답
type LetterSendResponse struct {
	LetterID         uint64    `json:"letter_id"`
	SenderNickname   string    `json:"sender_nickname"`
	ReceiverNickname string    `json:"receiver_nickname"`
	CreatedAt        time.Time `json:"created_at"`
	Message          string    `json:"message"`
	Warning          string    `json:"warning,omitempty"`
}

// LetterListItem is one letter in a list view
type LetterListItem struct {
	LetterID     uint64    `json:"letter_id"`
	SenderID     uint64    `json:"sender_id"`
	ReceiverID   uint64    `json:"receiver_id"`
	Theme        string    `json:"theme"`
	Title        string    `json:"title"`
	IsRead       bool      `json:"is_read"`
	IsBookmarked bool      `json:"is_bookmarked"`
	CreatedAt    time.Time `json:"created_at"`
}

// LetterDetailResponse 편지 상세 응답
type LetterDetailResponse struct {
	LetterID     uint64    `json:"letter_id"`
	SenderID     uint64    `json:"sender_id"`
	ReceiverID   uint64    `json:"receiver_id"`
	Theme        string    `json:"theme"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	IsRead       bool      `json:"is_read"`
	IsBookmarked bool      `json:"is_bookmarked"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToListItem converts a letter to its list view
func (l *Letter) ToListItem(bookmarked bool) *LetterListItem {
	return &LetterListItem{
		LetterID:     l.ID,
		SenderID:     l.SenderID,
		ReceiverID:   l.ReceiverID,
		Theme:        l.Theme,
		Title:        l.Title,
		IsRead:       l.IsRead,
		IsBookmarked: bookmarked,
		CreatedAt:    l.CreatedAt,
	}
}

// ToDetail converts a letter to its detail view
func (l *Letter) ToDetail(bookmarked bool) *LetterDetailResponse {
	return &LetterDetailResponse{
		LetterID:     l.ID,
		SenderID:     l.SenderID,
		ReceiverID:   l.ReceiverID,
		Theme:        l.Theme,
		Title:        l.Title,
		Content:      l.Content,
		IsRead:       l.IsRead,
		IsBookmarked: bookmarked,
		CreatedAt:    l.CreatedAt,
	}
}
