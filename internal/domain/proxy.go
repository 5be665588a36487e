package domain

import "time"

// Proxy is a time-bounded delegation: user_id grants proxy_user_id the right
// to act on their behalf until expired_at. Directional; one row per ordered
// pair. Expiry is checked lazily at use time, never swept.
type Proxy struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_proxy_pair" json:"user_id"`
	ProxyUserID uint64    `gorm:"column:proxy_user_id;not null;uniqueIndex:idx_proxy_pair" json:"proxy_user_id"`
	ExpiredAt   time.Time `gorm:"column:expired_at" json:"expired_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Proxy) TableName() string { return "proxies" }

// Expired reports whether the delegation has lapsed at time now.
func (p *Proxy) Expired(now time.Time) bool {
	return !p.ExpiredAt.After(now)
}

// ProxyRequestDto 대리인 설정 바디
type ProxyRequestDto struct {
	ExpiredAt time.Time `json:"expired_at" binding:"required" time_format:"2006-01-02T15:04:05"`
}

// ProxyResponse 대리인 설정 응답
type ProxyResponse struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	ProxyUserID   uint64    `json:"proxy_user_id"`
	ProxyNickname string    `json:"proxy_nickname"`
	ExpiredAt     time.Time `json:"expired_at"`
}
