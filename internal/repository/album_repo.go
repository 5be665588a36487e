package repository

import (
	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
)

// AlbumRepository gallery album data access
type AlbumRepository interface {
	Create(album *domain.Album) error
	FindByID(id uint64) (*domain.Album, error)
	FindByUser(userID uint64) ([]*domain.Album, error)
	UpdateTitle(id uint64, title string) error
	// Delete removes the album together with its photo links. The photos
	// themselves survive.
	Delete(id uint64) error

	AddPhoto(albumID, photoID uint64) error
	RemovePhoto(albumID, photoID uint64) (bool, error)
	HasPhoto(albumID, photoID uint64) (bool, error)
	CountPhotos(albumID uint64) (int64, error)
	// FindPhotos lists the album's photos, newest link first.
	FindPhotos(albumID uint64, page, limit int) ([]*domain.Photo, int64, error)
}

type albumRepository struct {
	db *gorm.DB
}

// NewAlbumRepository creates a new AlbumRepository
func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepository{db: db}
}

func (r *albumRepository) Create(album *domain.Album) error {
	return r.db.Create(album).Error
}

func (r *albumRepository) FindByID(id uint64) (*domain.Album, error) {
	var album domain.Album
	if err := r.db.Where("id = ?", id).First(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *albumRepository) FindByUser(userID uint64) ([]*domain.Album, error) {
	var albums []*domain.Album
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&albums).Error
	return albums, err
}

func (r *albumRepository) UpdateTitle(id uint64, title string) error {
	return r.db.Model(&domain.Album{}).Where("id = ?", id).
		Update("title", title).Error
}

func (r *albumRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&domain.AlbumPhoto{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Album{}).Error
	})
}

func (r *albumRepository) AddPhoto(albumID, photoID uint64) error {
	return r.db.Create(&domain.AlbumPhoto{AlbumID: albumID, PhotoID: photoID}).Error
}

func (r *albumRepository) RemovePhoto(albumID, photoID uint64) (bool, error) {
	result := r.db.Where("album_id = ? AND photo_id = ?", albumID, photoID).
		Delete(&domain.AlbumPhoto{})
	return result.RowsAffected > 0, result.Error
}

func (r *albumRepository) HasPhoto(albumID, photoID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.AlbumPhoto{}).
		Where("album_id = ? AND photo_id = ?", albumID, photoID).
		Count(&count).Error
	return count > 0, err
}

func (r *albumRepository) CountPhotos(albumID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.AlbumPhoto{}).
		Where("album_id = ?", albumID).
		Count(&count).Error
	return count, err
}

func (r *albumRepository) FindPhotos(albumID uint64, page, limit int) ([]*domain.Photo, int64, error) {
	query := r.db.Model(&domain.Photo{}).
		Joins("JOIN album_photos ON album_photos.photo_id = photos.id").
		Where("album_photos.album_id = ?", albumID)

	var photos []*domain.Photo
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("photos.id DESC").Offset(offset).Limit(limit).Find(&photos).Error; err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}
