package repository

import (
	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
)

// FriendRepository persists directed relationship edges. Pure data access;
// transition policy lives in the service layer.
type FriendRepository interface {
	WithTx(tx *gorm.DB) FriendRepository

	// FindBetween returns every edge between the unordered pair, both directions.
	FindBetween(userID, otherID uint64) ([]*domain.Friend, error)
	// FindBetweenForUpdate is FindBetween with pessimistic row locks; call it
	// only inside a transaction.
	FindBetweenForUpdate(userID, otherID uint64) ([]*domain.Friend, error)
	FindEdge(userID, friendID uint64) (*domain.Friend, error)
	Create(edge *domain.Friend) error
	UpdateStatus(userID, friendID uint64, status domain.FriendStatus) error
	DeleteEdge(userID, friendID uint64) error
	DeleteBetween(userID, otherID uint64) error
	// FindAcceptedByUser returns accepted edges touching userID in either direction.
	FindAcceptedByUser(userID uint64) ([]*domain.Friend, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new FriendRepository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) WithTx(tx *gorm.DB) FriendRepository {
	return &friendRepository{db: tx}
}

func (r *friendRepository) FindBetween(userID, otherID uint64) ([]*domain.Friend, error) {
	var edges []*domain.Friend
	err := r.db.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, otherID, otherID, userID).
		Find(&edges).Error
	return edges, err
}

func (r *friendRepository) FindBetweenForUpdate(userID, otherID uint64) ([]*domain.Friend, error) {
	var edges []*domain.Friend
	err := lockForUpdate(r.db).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, otherID, otherID, userID).
		Find(&edges).Error
	return edges, err
}

func (r *friendRepository) FindEdge(userID, friendID uint64) (*domain.Friend, error) {
	var edge domain.Friend
	err := r.db.
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *friendRepository) Create(edge *domain.Friend) error {
	return r.db.Create(edge).Error
}

func (r *friendRepository) UpdateStatus(userID, friendID uint64, status domain.FriendStatus) error {
	return r.db.Model(&domain.Friend{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Update("status", status).Error
}

func (r *friendRepository) DeleteEdge(userID, friendID uint64) error {
	return r.db.
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&domain.Friend{}).Error
}

func (r *friendRepository) DeleteBetween(userID, otherID uint64) error {
	return r.db.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, otherID, otherID, userID).
		Delete(&domain.Friend{}).Error
}

func (r *friendRepository) FindAcceptedByUser(userID uint64) ([]*domain.Friend, error) {
	var edges []*domain.Friend
	err := r.db.
		Where("(user_id = ? OR friend_id = ?) AND status = ?",
			userID, userID, domain.FriendStatusAccepted).
		Order("requested_at DESC").
		Find(&edges).Error
	return edges, err
}
