package domain

import "time"

// FriendStatus is the stored status of one directed friend edge.
type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
	FriendStatusBlocked  FriendStatus = "blocked"
)

// Valid reports whether s is one of the storable edge statuses.
func (s FriendStatus) Valid() bool {
	switch s {
	case FriendStatusPending, FriendStatusAccepted, FriendStatusBlocked:
		return true
	}
	return false
}

// RelationStatus is the derived relationship status between two users as seen
// from one side. Unlike FriendStatus it includes the virtual states "none"
// (no edge in either direction) and "received" (the other party has a pending
// request towards me).
type RelationStatus string

const (
	RelationNone     RelationStatus = "none"
	RelationPending  RelationStatus = "pending"
	RelationReceived RelationStatus = "received"
	RelationAccepted RelationStatus = "accepted"
	RelationBlocked  RelationStatus = "blocked"
)

// Friend is one directed relationship edge (user_id → friend_id).
// The same unordered pair can hold up to two rows, one per direction.
type Friend struct {
	UserID      uint64       `gorm:"column:user_id;primaryKey" json:"user_id"`
	FriendID    uint64       `gorm:"column:friend_id;primaryKey" json:"friend_id"`
	Status      FriendStatus `gorm:"column:status;type:varchar(10);not null" json:"status"`
	RequestedAt time.Time    `gorm:"column:requested_at" json:"requested_at"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Friend) TableName() string { return "friends" }

// FriendRequestDto 친구 요청 바디
type FriendRequestDto struct {
	FriendID uint64 `json:"friend_id" binding:"required"`
}

// FriendStatusUpdateDto 친구 상태 변경 바디 (accepted | rejected | blocked)
type FriendStatusUpdateDto struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected blocked"`
}

// FriendResponse is one edge with the other party's public fields attached
type FriendResponse struct {
	UserID                uint64       `json:"user_id"`
	FriendID              uint64       `json:"friend_id"`
	FriendNickname        string       `json:"friend_nickname"`
	FriendProfileImageURL string       `json:"friend_profile_image_url"`
	FriendBio             string       `json:"friend_bio"`
	Status                FriendStatus `json:"status"`
	RequestedAt           time.Time    `json:"requested_at"`
}

// NewFriendResponse builds a FriendResponse for an edge, viewed by viewerID.
// The "other" profile is always the counterpart of the viewer, regardless of
// which direction the edge points.
func NewFriendResponse(edge *Friend, other *UserProfile) *FriendResponse {
	return &FriendResponse{
		UserID:                edge.UserID,
		FriendID:              edge.FriendID,
		FriendNickname:        other.Nickname,
		FriendProfileImageURL: other.ProfileImageURL,
		FriendBio:             other.Bio,
		Status:                edge.Status,
		RequestedAt:           edge.RequestedAt,
	}
}

// FriendListResponse 친구 목록 응답
type FriendListResponse struct {
	Count   int               `json:"count"`
	Friends []*FriendResponse `json:"friends"`
}

// FriendSearchResponse is one nickname search hit with the derived status
type FriendSearchResponse struct {
	UserID          uint64         `json:"user_id"`
	Nickname        string         `json:"nickname"`
	ProfileImageURL string         `json:"profile_image_url"`
	Bio             string         `json:"bio"`
	FriendStatus    RelationStatus `json:"friend_status"`
}

// FriendSearchListResponse 친구 검색 응답
type FriendSearchListResponse struct {
	Count   int                     `json:"count"`
	Results []*FriendSearchResponse `json:"results"`
}
