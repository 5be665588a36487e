package repository

import (
	"errors"
	"time"

	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
)

// CapsuleRepository time capsule data access
type CapsuleRepository interface {
	Create(capsule *domain.TimeCapsule) error
	FindByID(id uint64) (*domain.TimeCapsule, error)
	// FindByType lists capsules for userID filtered by the capsule type,
	// excluding those the caller soft-deleted on their side.
	FindByType(userID uint64, capsuleType domain.CapsuleType, now time.Time, page, limit int) ([]*domain.TimeCapsule, int64, error)
	// DeleteForUser mirrors the letter soft-delete convergence.
	DeleteForUser(id, userID uint64) error
}

type capsuleRepository struct {
	db *gorm.DB
}

// NewCapsuleRepository creates a new CapsuleRepository
func NewCapsuleRepository(db *gorm.DB) CapsuleRepository {
	return &capsuleRepository{db: db}
}

func (r *capsuleRepository) Create(capsule *domain.TimeCapsule) error {
	return r.db.Create(capsule).Error
}

func (r *capsuleRepository) FindByID(id uint64) (*domain.TimeCapsule, error) {
	var capsule domain.TimeCapsule
	if err := r.db.Where("id = ?", id).First(&capsule).Error; err != nil {
		return nil, err
	}
	return &capsule, nil
}

func (r *capsuleRepository) FindByType(userID uint64, capsuleType domain.CapsuleType, now time.Time, page, limit int) ([]*domain.TimeCapsule, int64, error) {
	visible := r.db.Model(&domain.TimeCapsule{}).
		Where("(sender_id = ? AND deleted_by_sender = false) OR "+
			"(receiver_id = ? AND deleted_by_receiver = false)", userID, userID)

	switch capsuleType {
	case domain.CapsuleTypeReceived:
		visible = r.db.Model(&domain.TimeCapsule{}).
			Where("receiver_id = ? AND deleted_by_receiver = false", userID)
	case domain.CapsuleTypeSent:
		visible = r.db.Model(&domain.TimeCapsule{}).
			Where("sender_id = ? AND deleted_by_sender = false", userID)
	case domain.CapsuleTypeOpened:
		visible = visible.Where("open_at <= ?", now)
	}

	var capsules []*domain.TimeCapsule
	var total int64
	if err := visible.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := visible.Order("id DESC").Offset(offset).Limit(limit).Find(&capsules).Error; err != nil {
		return nil, 0, err
	}
	return capsules, total, nil
}

func (r *capsuleRepository) DeleteForUser(id, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var capsule domain.TimeCapsule
		err := lockForUpdate(tx).
			Where("id = ?", id).
			First(&capsule).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		switch userID {
		case capsule.SenderID:
			capsule.DeletedBySender = true
		case capsule.ReceiverID:
			capsule.DeletedByReceiver = true
		default:
			return gorm.ErrRecordNotFound
		}

		if capsule.PermanentlyDeletable() {
			return tx.Delete(&capsule).Error
		}
		return tx.Model(&domain.TimeCapsule{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"deleted_by_sender":   capsule.DeletedBySender,
				"deleted_by_receiver": capsule.DeletedByReceiver,
			}).Error
	})
}
