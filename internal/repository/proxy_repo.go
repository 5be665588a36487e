package repository

import (
	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProxyRepository persists delegation records
type ProxyRepository interface {
	WithTx(tx *gorm.DB) ProxyRepository

	// Upsert creates the delegation or refreshes expired_at for an existing
	// ordered pair, preserving its identity.
	Upsert(proxy *domain.Proxy) error
	FindByPair(userID, proxyUserID uint64) (*domain.Proxy, error)
	DeleteByPair(userID, proxyUserID uint64) error
	// DeleteBetween removes every delegation between the pair in either
	// direction (unfriend cascade).
	DeleteBetween(userID, otherID uint64) error
	FindByUser(userID uint64) ([]*domain.Proxy, error)
}

type proxyRepository struct {
	db *gorm.DB
}

// NewProxyRepository creates a new ProxyRepository
func NewProxyRepository(db *gorm.DB) ProxyRepository {
	return &proxyRepository{db: db}
}

func (r *proxyRepository) WithTx(tx *gorm.DB) ProxyRepository {
	return &proxyRepository{db: tx}
}

func (r *proxyRepository) Upsert(proxy *domain.Proxy) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "proxy_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"expired_at", "updated_at"}),
	}).Create(proxy).Error
}

func (r *proxyRepository) FindByPair(userID, proxyUserID uint64) (*domain.Proxy, error) {
	var proxy domain.Proxy
	err := r.db.
		Where("user_id = ? AND proxy_user_id = ?", userID, proxyUserID).
		First(&proxy).Error
	if err != nil {
		return nil, err
	}
	return &proxy, nil
}

func (r *proxyRepository) DeleteByPair(userID, proxyUserID uint64) error {
	return r.db.
		Where("user_id = ? AND proxy_user_id = ?", userID, proxyUserID).
		Delete(&domain.Proxy{}).Error
}

func (r *proxyRepository) DeleteBetween(userID, otherID uint64) error {
	return r.db.
		Where("(user_id = ? AND proxy_user_id = ?) OR (user_id = ? AND proxy_user_id = ?)",
			userID, otherID, otherID, userID).
		Delete(&domain.Proxy{}).Error
}

func (r *proxyRepository) FindByUser(userID uint64) ([]*domain.Proxy, error) {
	var proxies []*domain.Proxy
	err := r.db.Where("user_id = ?", userID).Find(&proxies).Error
	return proxies, err
}
