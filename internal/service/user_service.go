package service

import (
	"context"
	"errors"
	"time"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	pkglogger "github.com/deartime/deartime-backend/pkg/logger"
	"github.com/deartime/deartime-backend/pkg/storage"
	"gorm.io/gorm"
)

const profileImageFolder = "profiles"

// UserService is the identity collaborator: signup, lookup and profile
// maintenance. The engine services only consume FindByID/NicknameExists
// through the repository.
type UserService interface {
	SignUp(providerID, email string, req *domain.SignUpRequest, image *ImageUpload) (*domain.User, error)
	GetByID(id uint64) (*domain.User, error)
	GetByProviderID(providerID string) (*domain.User, error)
	NicknameExists(nickname string) (bool, error)
	UpdateProfile(id uint64, req *domain.UpdateProfileRequest, image *ImageUpload) (*domain.User, error)
}

type userService struct {
	repo  repository.UserRepository
	store ObjectStorage
}

// NewUserService creates a new UserService. store may be nil.
func NewUserService(repo repository.UserRepository, store ObjectStorage) UserService {
	return &userService{repo: repo, store: store}
}

// SignUp registers a user with a unique nickname.
func (s *userService) SignUp(providerID, email string, req *domain.SignUpRequest, image *ImageUpload) (*domain.User, error) {
	taken, err := s.repo.NicknameExists(req.Nickname)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrNicknameTaken
	}

	user := &domain.User{
		ProviderID: providerID,
		Email:      email,
		Nickname:   req.Nickname,
		Bio:        req.Bio,
	}
	if req.BirthDate != "" {
		if birth, err := time.Parse("2006-01-02", req.BirthDate); err == nil {
			user.BirthDate = &birth
		} else {
			return nil, common.ErrInvalidInput
		}
	}

	imageKey := ""
	if image != nil && s.store != nil {
		key := storage.GenerateKey(profileImageFolder, image.Filename)
		result, err := s.store.Upload(context.Background(), key, image.Body, image.ContentType, image.Size)
		if err != nil {
			pkglogger.GetLogger().Error().Err(err).Msg("profile image upload failed")
			return nil, common.ErrStorage
		}
		user.ProfileImageURL = result.URL
		imageKey = result.Key
	}

	if err := s.repo.Create(user); err != nil {
		if imageKey != "" {
			if delErr := s.store.Delete(context.Background(), imageKey); delErr != nil {
				pkglogger.GetLogger().Error().
					Err(delErr).
					Str("key", imageKey).
					Msg("compensating image delete failed")
			}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(id uint64) (*domain.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByProviderID(providerID string) (*domain.User, error) {
	user, err := s.repo.FindByProviderID(providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) NicknameExists(nickname string) (bool, error) {
	return s.repo.NicknameExists(nickname)
}

// UpdateProfile applies partial changes. A replaced profile image triggers a
// stale-image cleanup that logs and continues on failure.
func (s *userService) UpdateProfile(id uint64, req *domain.UpdateProfileRequest, image *ImageUpload) (*domain.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil && *req.Nickname != user.Nickname {
		taken, err := s.repo.NicknameExists(*req.Nickname)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ErrNicknameTaken
		}
		user.Nickname = *req.Nickname
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.BirthDate != nil {
		birth, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, common.ErrInvalidInput
		}
		user.BirthDate = &birth
	}

	staleURL := ""
	if image != nil && s.store != nil {
		key := storage.GenerateKey(profileImageFolder, image.Filename)
		result, err := s.store.Upload(context.Background(), key, image.Body, image.ContentType, image.Size)
		if err != nil {
			pkglogger.GetLogger().Error().Err(err).Msg("profile image upload failed")
			return nil, common.ErrStorage
		}
		staleURL = user.ProfileImageURL
		user.ProfileImageURL = result.URL
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	if staleURL != "" {
		if key, ok := storage.KeyFromURL(staleURL); ok {
			if err := s.store.Delete(context.Background(), key); err != nil {
				pkglogger.GetLogger().Warn().
					Err(err).
					Str("url", staleURL).
					Msg("stale profile image cleanup failed")
			}
		}
	}
	return user, nil
}
