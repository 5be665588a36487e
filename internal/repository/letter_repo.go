package repository

import (
	"errors"

	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
)

// LetterRepository letter data access
type LetterRepository interface {
	Create(letter *domain.Letter) error
	FindByID(id uint64) (*domain.Letter, error)
	FindReceived(userID uint64, page, limit int) ([]*domain.Letter, int64, error)
	FindSent(userID uint64, page, limit int) ([]*domain.Letter, int64, error)
	FindBookmarked(userID uint64, page, limit int) ([]*domain.Letter, int64, error)
	// FindConversation returns letters exchanged between the two users that the
	// caller has not soft-deleted on their side.
	FindConversation(userID, targetID uint64, page, limit int) ([]*domain.Letter, int64, error)
	MarkAsRead(id uint64) error
	// DeleteForUser flips the caller's soft-delete flag and physically removes
	// the row once both flags are set. Atomic; a repeat call for an
	// already-flagged or already-removed letter is a no-op.
	DeleteForUser(id, userID uint64) error

	IsBookmarked(userID, letterID uint64) (bool, error)
	// FindBookmarkedIDs returns which of the given letters the user has
	// bookmarked, as a set. One query per page, not per letter.
	FindBookmarkedIDs(userID uint64, letterIDs []uint64) (map[uint64]bool, error)
	// ToggleBookmark flips the bookmark state and reports the new state.
	ToggleBookmark(userID, letterID uint64) (bool, error)
}

type letterRepository struct {
	db *gorm.DB
}

// NewLetterRepository creates a new LetterRepository
func NewLetterRepository(db *gorm.DB) LetterRepository {
	return &letterRepository{db: db}
}

func (r *letterRepository) Create(letter *domain.Letter) error {
	return r.db.Create(letter).Error
}

func (r *letterRepository) FindByID(id uint64) (*domain.Letter, error) {
	var letter domain.Letter
	if err := r.db.Where("id = ?", id).First(&letter).Error; err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *letterRepository) paged(query *gorm.DB, page, limit int) ([]*domain.Letter, int64, error) {
	var letters []*domain.Letter
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&letters).Error; err != nil {
		return nil, 0, err
	}
	return letters, total, nil
}

func (r *letterRepository) FindReceived(userID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	query := r.db.Model(&domain.Letter{}).
		Where("receiver_id = ? AND deleted_by_receiver = false", userID)
	return r.paged(query, page, limit)
}

func (r *letterRepository) FindSent(userID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	query := r.db.Model(&domain.Letter{}).
		Where("sender_id = ? AND deleted_by_sender = false", userID)
	return r.paged(query, page, limit)
}

func (r *letterRepository) FindBookmarked(userID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	query := r.db.Model(&domain.Letter{}).
		Joins("JOIN letter_favorites ON letter_favorites.letter_id = letters.id").
		Where("letter_favorites.user_id = ?", userID).
		Where("(letters.sender_id = ? AND letters.deleted_by_sender = false) OR "+
			"(letters.receiver_id = ? AND letters.deleted_by_receiver = false)", userID, userID)
	return r.paged(query, page, limit)
}

func (r *letterRepository) FindConversation(userID, targetID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	query := r.db.Model(&domain.Letter{}).
		Where("(sender_id = ? AND receiver_id = ? AND deleted_by_sender = false) OR "+
			"(sender_id = ? AND receiver_id = ? AND deleted_by_receiver = false)",
			userID, targetID, targetID, userID)
	return r.paged(query, page, limit)
}

func (r *letterRepository) MarkAsRead(id uint64) error {
	return r.db.Model(&domain.Letter{}).
		Where("id = ? AND is_read = false", id).
		Update("is_read", true).Error
}

func (r *letterRepository) DeleteForUser(id, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var letter domain.Letter
		err := lockForUpdate(tx).
			Where("id = ?", id).
			First(&letter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// already physically removed by the other party's converging delete
			return nil
		}
		if err != nil {
			return err
		}

		switch userID {
		case letter.SenderID:
			letter.DeletedBySender = true
		case letter.ReceiverID:
			letter.DeletedByReceiver = true
		default:
			return gorm.ErrRecordNotFound
		}

		if letter.PermanentlyDeletable() {
			if err := tx.Where("letter_id = ?", id).Delete(&domain.LetterFavorite{}).Error; err != nil {
				return err
			}
			return tx.Delete(&letter).Error
		}
		return tx.Model(&domain.Letter{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"deleted_by_sender":   letter.DeletedBySender,
				"deleted_by_receiver": letter.DeletedByReceiver,
			}).Error
	})
}

func (r *letterRepository) IsBookmarked(userID, letterID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.LetterFavorite{}).
		Where("user_id = ? AND letter_id = ?", userID, letterID).
		Count(&count).Error
	return count > 0, err
}

func (r *letterRepository) FindBookmarkedIDs(userID uint64, letterIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(letterIDs))
	if len(letterIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	err := r.db.Model(&domain.LetterFavorite{}).
		Where("user_id = ? AND letter_id IN ?", userID, letterIDs).
		Pluck("letter_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *letterRepository) ToggleBookmark(userID, letterID uint64) (bool, error) {
	var bookmarked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.LetterFavorite{}).
			Where("user_id = ? AND letter_id = ?", userID, letterID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			bookmarked = false
			return tx.Where("user_id = ? AND letter_id = ?", userID, letterID).
				Delete(&domain.LetterFavorite{}).Error
		}
		bookmarked = true
		return tx.Create(&domain.LetterFavorite{UserID: userID, LetterID: letterID}).Error
	})
	return bookmarked, err
}
