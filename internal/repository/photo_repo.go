package repository

import (
	"errors"

	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
)

// PhotoRepository gallery photo data access
type PhotoRepository interface {
	Create(photo *domain.Photo) error
	FindByID(id uint64) (*domain.Photo, error)
	FindByUser(userID uint64, page, limit int) ([]*domain.Photo, int64, error)
	UpdateCaption(id uint64, caption string) error
	// Delete removes the photo together with its album links and clears any
	// album cover pointing at it, in one transaction.
	Delete(id uint64) error
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(photo *domain.Photo) error {
	return r.db.Create(photo).Error
}

func (r *photoRepository) FindByID(id uint64) (*domain.Photo, error) {
	var photo domain.Photo
	if err := r.db.Where("id = ?", id).First(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) FindByUser(userID uint64, page, limit int) ([]*domain.Photo, int64, error) {
	query := r.db.Model(&domain.Photo{}).Where("user_id = ?", userID)

	var photos []*domain.Photo
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&photos).Error; err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

func (r *photoRepository) UpdateCaption(id uint64, caption string) error {
	return r.db.Model(&domain.Photo{}).Where("id = ?", id).
		Update("caption", caption).Error
}

func (r *photoRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var photo domain.Photo
		err := lockForUpdate(tx).Where("id = ?", id).First(&photo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		// 앨범 커버로 쓰이는 경우 해제
		if err := tx.Model(&domain.Album{}).
			Where("cover_photo_id = ?", id).
			Update("cover_photo_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", id).Delete(&domain.AlbumPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&photo).Error
	})
}
