package service

import (
	"context"
	"errors"
	"io"

	"github.com/deartime/deartime-backend/internal/access"
	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	pkglogger "github.com/deartime/deartime-backend/pkg/logger"
	"github.com/deartime/deartime-backend/pkg/storage"
	"gorm.io/gorm"
)

const capsuleImageFolder = "capsules"

// ObjectStorage is the object-storage collaborator boundary. Failures surface
// as ErrStorage, distinct from domain errors.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// ImageUpload carries an optional image attachment through the service layer.
type ImageUpload struct {
	Body        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CapsuleService owns the time capsule lifecycle. Sending requires an
// accepted friendship; reading by the receiver is gated on open_at.
type CapsuleService interface {
	Create(senderID uint64, req *domain.CreateCapsuleRequest, image *ImageUpload) (*domain.CapsuleResponse, error)
	Get(capsuleID, userID uint64) (*domain.CapsuleResponse, error)
	List(userID uint64, capsuleType domain.CapsuleType, page, limit int) ([]*domain.CapsuleResponse, *common.Meta, error)
	Delete(capsuleID, userID uint64) error
}

type capsuleService struct {
	repo      repository.CapsuleRepository
	friendSvc FriendService
	userRepo  repository.UserRepository
	store     ObjectStorage
	notifier  Notifier
	clock     Clock
}

// NewCapsuleService creates a new CapsuleService. store and notifier may be nil.
func NewCapsuleService(repo repository.CapsuleRepository, friendSvc FriendService, userRepo repository.UserRepository, store ObjectStorage, notifier Notifier, clock Clock) CapsuleService {
	if clock == nil {
		clock = systemClock{}
	}
	return &capsuleService{
		repo:      repo,
		friendSvc: friendSvc,
		userRepo:  userRepo,
		store:     store,
		notifier:  notifier,
		clock:     clock,
	}
}

// Create persists a capsule after validating the friendship. The image upload
// happens outside the persistence step; when persistence fails afterwards the
// upload is compensated with a best-effort delete.
func (s *capsuleService) Create(senderID uint64, req *domain.CreateCapsuleRequest, image *ImageUpload) (*domain.CapsuleResponse, error) {
	if senderID == req.ReceiverID {
		return nil, common.ErrSelfReference
	}

	status, err := s.friendSvc.Status(senderID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if status != domain.RelationAccepted {
		return nil, common.ErrReceiverNotFriend
	}

	if _, err := s.userRepo.FindByID(req.ReceiverID); err != nil {
		return nil, common.ErrUserNotFound
	}

	imageURL := ""
	imageKey := ""
	if image != nil && s.store != nil {
		key := storage.GenerateKey(capsuleImageFolder, image.Filename)
		result, err := s.store.Upload(context.Background(), key, image.Body, image.ContentType, image.Size)
		if err != nil {
			pkglogger.GetLogger().Error().Err(err).Msg("capsule image upload failed")
			return nil, common.ErrStorage
		}
		imageURL = result.URL
		imageKey = result.Key
	}

	capsule := &domain.TimeCapsule{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Title:      req.Title,
		Content:    req.Content,
		Theme:      req.Theme,
		ImageURL:   imageURL,
		OpenAt:     req.OpenAt,
	}
	if err := s.repo.Create(capsule); err != nil {
		if imageKey != "" {
			// persistence failed after upload; undo so no orphan remains
			if delErr := s.store.Delete(context.Background(), imageKey); delErr != nil {
				pkglogger.GetLogger().Error().
					Err(delErr).
					Str("key", imageKey).
					Msg("compensating image delete failed")
			}
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(req.ReceiverID, domain.NotificationCapsuleReceived, capsule.ID)
	}

	return capsule.ToResponse(true), nil
}

// Get returns the capsule detail. The receiver is refused with ErrNotYetOpen
// before open_at; the sender reads at any time.
func (s *capsuleService) Get(capsuleID, userID uint64) (*domain.CapsuleResponse, error) {
	capsule, err := s.repo.FindByID(capsuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrItemNotFound
		}
		return nil, err
	}
	// a capsule the viewer already deleted stays invisible even while the
	// time gate would otherwise answer first
	if s.hiddenFrom(capsule, userID) {
		return nil, common.ErrItemNotFound
	}
	if err := access.CanAccess(userID, capsule, access.ActionRead, s.clock.Now()); err != nil {
		return nil, err
	}
	return capsule.ToResponse(true), nil
}

// List returns capsules filtered by type. Items the viewer cannot open yet
// appear without their content.
func (s *capsuleService) List(userID uint64, capsuleType domain.CapsuleType, page, limit int) ([]*domain.CapsuleResponse, *common.Meta, error) {
	if capsuleType == "" {
		capsuleType = domain.CapsuleTypeAll
	}
	if !capsuleType.Valid() {
		return nil, nil, common.ErrInvalidInput
	}

	page, limit = normalizePage(page, limit)
	now := s.clock.Now()
	capsules, total, err := s.repo.FindByType(userID, capsuleType, now, page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.CapsuleResponse, len(capsules))
	for i, c := range capsules {
		responses[i] = c.ToResponse(access.CanOpen(userID, c, now))
	}
	return responses, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// Delete mirrors letter soft-delete convergence for capsules.
func (s *capsuleService) Delete(capsuleID, userID uint64) error {
	capsule, err := s.repo.FindByID(capsuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := access.CanAccess(userID, capsule, access.ActionModify, s.clock.Now()); err != nil {
		return err
	}
	return s.repo.DeleteForUser(capsuleID, userID)
}

func (s *capsuleService) hiddenFrom(capsule *domain.TimeCapsule, userID uint64) bool {
	if capsule.SenderID == userID && capsule.DeletedBySender {
		return true
	}
	if capsule.ReceiverID == userID && capsule.DeletedByReceiver {
		return true
	}
	return false
}
