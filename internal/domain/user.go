package domain

import "time"

// User represents a registered member
type User struct {
	ID              uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProviderID      string     `gorm:"column:provider_id;type:varchar(50);not null" json:"-"`
	Email           string     `gorm:"column:email;type:varchar(50);not null" json:"email"`
	Nickname        string     `gorm:"column:nickname;type:varchar(20);not null;uniqueIndex" json:"nickname"`
	ProfileImageURL string     `gorm:"column:profile_image_url" json:"profile_image_url"`
	BirthDate       *time.Time `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Bio             string     `gorm:"column:bio;type:varchar(500)" json:"bio"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserProfile is the public view of a user attached to friend/letter responses
type UserProfile struct {
	UserID          uint64 `json:"user_id"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profile_image_url"`
	Bio             string `json:"bio"`
}

// ToProfile returns the public fields of the user
func (u *User) ToProfile() *UserProfile {
	return &UserProfile{
		UserID:          u.ID,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
		Bio:             u.Bio,
	}
}

// SignUpRequest 회원가입 요청
type SignUpRequest struct {
	ProviderID string `json:"provider_id" form:"provider_id" binding:"required,max=50"`
	Email      string `json:"email" form:"email" binding:"required,email"`
	Nickname   string `json:"nickname" form:"nickname" binding:"required,max=20"`
	BirthDate  string `json:"birth_date" form:"birth_date"`
	Bio        string `json:"bio" form:"bio" binding:"max=500"`
}

// UpdateProfileRequest 프로필 수정 요청
type UpdateProfileRequest struct {
	Nickname  *string `json:"nickname" form:"nickname" binding:"omitempty,max=20"`
	BirthDate *string `json:"birth_date" form:"birth_date"`
	Bio       *string `json:"bio" form:"bio" binding:"omitempty,max=500"`
}
