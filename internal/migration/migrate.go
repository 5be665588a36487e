package migration

import (
	"github.com/deartime/deartime-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all tables.
// 테이블 없으면 생성, 있으면 skip
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Friend{},
		&domain.Proxy{},
		&domain.Letter{},
		&domain.LetterFavorite{},
		&domain.TimeCapsule{},
		&domain.Photo{},
		&domain.Album{},
		&domain.AlbumPhoto{},
		&domain.Notification{},
	)
}
