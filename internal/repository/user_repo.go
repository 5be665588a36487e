package repository

import (
	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id uint64) (*domain.User, error)
	FindByProviderID(providerID string) (*domain.User, error)
	NicknameExists(nickname string) (bool, error)
	// SearchByNickname finds users whose nickname contains keyword, excluding
	// the searching user.
	SearchByNickname(keyword string, excludeID uint64) ([]*domain.User, error)
	Update(user *domain.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByProviderID(providerID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("provider_id = ?", providerID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) NicknameExists(nickname string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).
		Where("nickname = ?", nickname).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) SearchByNickname(keyword string, excludeID uint64) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.
		Where("nickname LIKE ? AND id != ?", "%"+keyword+"%", excludeID).
		Order("nickname ASC").
		Limit(30).
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}
