package domain

import "time"

// Photo is an image in the uploader's personal gallery. Photos belong to one
// user only; albums group them through the album_photos join table.
type Photo struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	ImageURL  string     `gorm:"column:image_url;type:varchar(255);not null" json:"image_url"`
	Caption   string     `gorm:"column:caption;type:text" json:"caption"`
	TakenAt   *time.Time `gorm:"column:taken_at" json:"taken_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Photo) TableName() string { return "photos" }

// Album groups the owner's photos. CoverPhotoID is cleared when the cover
// photo is deleted.
type Album struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       uint64    `gorm:"column:user_id;not null;index" json:"user_id"`
	Title        string    `gorm:"column:title;type:varchar(50);not null" json:"title"`
	CoverPhotoID *uint64   `gorm:"column:cover_photo_id" json:"cover_photo_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Album) TableName() string { return "albums" }

// AlbumPhoto links a photo into an album (composite key).
type AlbumPhoto struct {
	AlbumID   uint64    `gorm:"column:album_id;primaryKey" json:"album_id"`
	PhotoID   uint64    `gorm:"column:photo_id;primaryKey" json:"photo_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AlbumPhoto) TableName() string { return "album_photos" }

// PhotoUploadRequest 사진 업로드 폼 필드 (파일과 함께 multipart로 전달)
type PhotoUploadRequest struct {
	AlbumID *uint64 `form:"album_id"`
	Caption string  `form:"caption"`
}

// PhotoCaptionUpdateRequest 캡션 수정 바디
type PhotoCaptionUpdateRequest struct {
	Caption string `json:"caption" binding:"max=2000"`
}

// PhotoResponse is one photo in API responses.
type PhotoResponse struct {
	PhotoID   uint64     `json:"photo_id"`
	ImageURL  string     `json:"image_url"`
	Caption   string     `json:"caption"`
	TakenAt   *time.Time `json:"taken_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponse converts a photo to its API view
func (p *Photo) ToResponse() *PhotoResponse {
	return &PhotoResponse{
		PhotoID:   p.ID,
		ImageURL:  p.ImageURL,
		Caption:   p.Caption,
		TakenAt:   p.TakenAt,
		CreatedAt: p.CreatedAt,
	}
}

// AlbumCreateRequest 앨범 생성 바디
type AlbumCreateRequest struct {
	Title        string  `json:"title" binding:"required,max=50"`
	CoverPhotoID *uint64 `json:"cover_photo_id"`
}

// AlbumTitleUpdateRequest 앨범 이름 수정 바디
type AlbumTitleUpdateRequest struct {
	Title string `json:"title" binding:"required,max=50"`
}

// AlbumAddPhotosRequest 앨범에 사진 추가 바디
type AlbumAddPhotosRequest struct {
	PhotoIDs []uint64 `json:"photo_ids" binding:"required,min=1"`
}

// AlbumResponse is one album in API responses. CoverURL is resolved from the
// cover photo when set.
type AlbumResponse struct {
	AlbumID      uint64    `json:"album_id"`
	Title        string    `json:"title"`
	CoverPhotoID *uint64   `json:"cover_photo_id,omitempty"`
	CoverURL     string    `json:"cover_url,omitempty"`
	PhotoCount   int64     `json:"photo_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts an album to its API view
func (a *Album) ToResponse(coverURL string, photoCount int64) *AlbumResponse {
	return &AlbumResponse{
		AlbumID:      a.ID,
		Title:        a.Title,
		CoverPhotoID: a.CoverPhotoID,
		CoverURL:     coverURL,
		PhotoCount:   photoCount,
		CreatedAt:    a.CreatedAt,
	}
}
