package service

import (
	"context"
	"errors"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	pkglogger "github.com/deartime/deartime-backend/pkg/logger"
	"github.com/deartime/deartime-backend/pkg/storage"
	"gorm.io/gorm"
)

const photoImageFolder = "photos"

// GalleryService owns the personal photo gallery: photo upload and caption
// editing plus album grouping. Everything here is single-owner; only the
// uploader ever sees or modifies their photos.
type GalleryService interface {
	UploadPhotos(userID uint64, req *domain.PhotoUploadRequest, images []*ImageUpload) ([]*domain.PhotoResponse, error)
	ListPhotos(userID uint64, page, limit int) ([]*domain.PhotoResponse, *common.Meta, error)
	UpdateCaption(photoID, userID uint64, caption string) (*domain.PhotoResponse, error)
	DeletePhoto(photoID, userID uint64) error

	CreateAlbum(userID uint64, req *domain.AlbumCreateRequest) (*domain.AlbumResponse, error)
	ListAlbums(userID uint64) ([]*domain.AlbumResponse, error)
	UpdateAlbumTitle(albumID, userID uint64, title string) (*domain.AlbumResponse, error)
	DeleteAlbum(albumID, userID uint64) error

	AddPhotosToAlbum(albumID, userID uint64, photoIDs []uint64) ([]*domain.PhotoResponse, error)
	ListAlbumPhotos(albumID, userID uint64, page, limit int) ([]*domain.PhotoResponse, *common.Meta, error)
	RemovePhotoFromAlbum(albumID, photoID, userID uint64) error
}

type galleryService struct {
	photoRepo repository.PhotoRepository
	albumRepo repository.AlbumRepository
	userRepo  repository.UserRepository
	store     ObjectStorage
	clock     Clock
}

// NewGalleryService creates a new GalleryService. store may be nil when
// uploads are disabled.
func NewGalleryService(photoRepo repository.PhotoRepository, albumRepo repository.AlbumRepository, userRepo repository.UserRepository, store ObjectStorage, clock Clock) GalleryService {
	if clock == nil {
		clock = systemClock{}
	}
	return &galleryService{
		photoRepo: photoRepo,
		albumRepo: albumRepo,
		userRepo:  userRepo,
		store:     store,
		clock:     clock,
	}
}

// UploadPhotos stores each image and records a photo row per file. When an
// album is given it must belong to the uploader; new photos are linked into
// it as they are saved.
func (s *galleryService) UploadPhotos(userID uint64, req *domain.PhotoUploadRequest, images []*ImageUpload) ([]*domain.PhotoResponse, error) {
	if len(images) == 0 {
		return nil, common.ErrInvalidInput
	}
	if s.store == nil {
		return nil, common.ErrStorage
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, common.ErrUserNotFound
	}

	if req.AlbumID != nil {
		if _, err := s.ownedAlbum(*req.AlbumID, userID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	responses := make([]*domain.PhotoResponse, 0, len(images))
	for _, image := range images {
		if image == nil {
			continue
		}

		key := storage.GenerateKey(photoImageFolder, image.Filename)
		result, err := s.store.Upload(context.Background(), key, image.Body, image.ContentType, image.Size)
		if err != nil {
			pkglogger.GetLogger().Error().Err(err).Msg("photo upload failed")
			return nil, common.ErrStorage
		}

		photo := &domain.Photo{
			UserID:   userID,
			ImageURL: result.URL,
			Caption:  req.Caption,
			TakenAt:  &now,
		}
		if err := s.photoRepo.Create(photo); err != nil {
			// persistence failed after upload; undo so no orphan remains
			if delErr := s.store.Delete(context.Background(), result.Key); delErr != nil {
				pkglogger.GetLogger().Error().
					Err(delErr).
					Str("key", result.Key).
					Msg("compensating photo delete failed")
			}
			return nil, err
		}

		if req.AlbumID != nil {
			if err := s.albumRepo.AddPhoto(*req.AlbumID, photo.ID); err != nil {
				return nil, err
			}
		}
		responses = append(responses, photo.ToResponse())
	}

	if len(responses) == 0 {
		return nil, common.ErrInvalidInput
	}
	return responses, nil
}

func (s *galleryService) ListPhotos(userID uint64, page, limit int) ([]*domain.PhotoResponse, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	photos, total, err := s.photoRepo.FindByUser(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return toPhotoResponses(photos), &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// UpdateCaption replaces the photo caption. Owner only.
func (s *galleryService) UpdateCaption(photoID, userID uint64, caption string) (*domain.PhotoResponse, error) {
	photo, err := s.ownedPhoto(photoID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.photoRepo.UpdateCaption(photoID, caption); err != nil {
		return nil, err
	}
	photo.Caption = caption
	return photo.ToResponse(), nil
}

// DeletePhoto removes the photo row with its album links, then deletes the
// stored object best-effort.
func (s *galleryService) DeletePhoto(photoID, userID uint64) error {
	photo, err := s.ownedPhoto(photoID, userID)
	if err != nil {
		return err
	}
	if err := s.photoRepo.Delete(photoID); err != nil {
		return err
	}

	if s.store != nil {
		if key, ok := storage.KeyFromURL(photo.ImageURL); ok {
			if err := s.store.Delete(context.Background(), key); err != nil {
				pkglogger.GetLogger().Warn().
					Err(err).
					Str("key", key).
					Msg("stored photo object delete failed")
			}
		}
	}
	return nil
}

// CreateAlbum creates an album; an optional cover photo must belong to the
// caller and is linked into the album.
func (s *galleryService) CreateAlbum(userID uint64, req *domain.AlbumCreateRequest) (*domain.AlbumResponse, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, common.ErrUserNotFound
	}

	var cover *domain.Photo
	if req.CoverPhotoID != nil {
		photo, err := s.ownedPhoto(*req.CoverPhotoID, userID)
		if err != nil {
			return nil, err
		}
		cover = photo
	}

	album := &domain.Album{
		UserID:       userID,
		Title:        req.Title,
		CoverPhotoID: req.CoverPhotoID,
	}
	if err := s.albumRepo.Create(album); err != nil {
		return nil, err
	}

	coverURL := ""
	photoCount := int64(0)
	if cover != nil {
		if err := s.albumRepo.AddPhoto(album.ID, cover.ID); err != nil {
			return nil, err
		}
		coverURL = cover.ImageURL
		photoCount = 1
	}
	return album.ToResponse(coverURL, photoCount), nil
}

func (s *galleryService) ListAlbums(userID uint64) ([]*domain.AlbumResponse, error) {
	albums, err := s.albumRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.AlbumResponse, len(albums))
	for i, album := range albums {
		count, err := s.albumRepo.CountPhotos(album.ID)
		if err != nil {
			return nil, err
		}
		coverURL := ""
		if album.CoverPhotoID != nil {
			if photo, err := s.photoRepo.FindByID(*album.CoverPhotoID); err == nil {
				coverURL = photo.ImageURL
			}
		}
		responses[i] = album.ToResponse(coverURL, count)
	}
	return responses, nil
}

// UpdateAlbumTitle renames the album. Owner only.
func (s *galleryService) UpdateAlbumTitle(albumID, userID uint64, title string) (*domain.AlbumResponse, error) {
	album, err := s.ownedAlbum(albumID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.albumRepo.UpdateTitle(albumID, title); err != nil {
		return nil, err
	}
	album.Title = title

	count, err := s.albumRepo.CountPhotos(albumID)
	if err != nil {
		return nil, err
	}
	coverURL := ""
	if album.CoverPhotoID != nil {
		if photo, err := s.photoRepo.FindByID(*album.CoverPhotoID); err == nil {
			coverURL = photo.ImageURL
		}
	}
	return album.ToResponse(coverURL, count), nil
}

// DeleteAlbum removes the album and its links; photos stay in the gallery.
func (s *galleryService) DeleteAlbum(albumID, userID uint64) error {
	if _, err := s.ownedAlbum(albumID, userID); err != nil {
		return err
	}
	return s.albumRepo.Delete(albumID)
}

// AddPhotosToAlbum links the caller's photos into their album. Photos already
// in the album are skipped silently.
func (s *galleryService) AddPhotosToAlbum(albumID, userID uint64, photoIDs []uint64) ([]*domain.PhotoResponse, error) {
	if _, err := s.ownedAlbum(albumID, userID); err != nil {
		return nil, err
	}

	added := make([]*domain.PhotoResponse, 0, len(photoIDs))
	for _, photoID := range photoIDs {
		photo, err := s.ownedPhoto(photoID, userID)
		if err != nil {
			return nil, err
		}

		exists, err := s.albumRepo.HasPhoto(albumID, photoID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		if err := s.albumRepo.AddPhoto(albumID, photoID); err != nil {
			return nil, err
		}
		added = append(added, photo.ToResponse())
	}
	return added, nil
}

func (s *galleryService) ListAlbumPhotos(albumID, userID uint64, page, limit int) ([]*domain.PhotoResponse, *common.Meta, error) {
	if _, err := s.ownedAlbum(albumID, userID); err != nil {
		return nil, nil, err
	}

	page, limit = normalizePage(page, limit)
	photos, total, err := s.albumRepo.FindPhotos(albumID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return toPhotoResponses(photos), &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// RemovePhotoFromAlbum unlinks the photo; a link that does not exist is an
// error, matching the album detail view the caller acted from.
func (s *galleryService) RemovePhotoFromAlbum(albumID, photoID, userID uint64) error {
	if _, err := s.ownedAlbum(albumID, userID); err != nil {
		return err
	}

	removed, err := s.albumRepo.RemovePhoto(albumID, photoID)
	if err != nil {
		return err
	}
	if !removed {
		return common.ErrItemNotFound
	}
	return nil
}

func (s *galleryService) ownedPhoto(photoID, userID uint64) (*domain.Photo, error) {
	photo, err := s.photoRepo.FindByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrItemNotFound
		}
		return nil, err
	}
	if photo.UserID != userID {
		return nil, common.ErrForbidden
	}
	return photo, nil
}

func (s *galleryService) ownedAlbum(albumID, userID uint64) (*domain.Album, error) {
	album, err := s.albumRepo.FindByID(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrItemNotFound
		}
		return nil, err
	}
	if album.UserID != userID {
		return nil, common.ErrForbidden
	}
	return album, nil
}

func toPhotoResponses(photos []*domain.Photo) []*domain.PhotoResponse {
	responses := make([]*domain.PhotoResponse, len(photos))
	for i, p := range photos {
		responses[i] = p.ToResponse()
	}
	return responses
}
