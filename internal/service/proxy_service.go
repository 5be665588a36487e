package service

import (
	"errors"
	"time"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	"gorm.io/gorm"
)

// ProxyService manages time-bounded delegations. A delegation requires an
// accepted friendship at creation time; it is not re-validated afterwards,
// and expiry is evaluated lazily by whoever consumes the delegation.
type ProxyService interface {
	SetProxy(userID, proxyUserID uint64, expiredAt time.Time) (*domain.ProxyResponse, error)
	RemoveProxy(userID, proxyUserID uint64) error
	ListProxies(userID uint64) ([]*domain.ProxyResponse, error)
}

type proxyService struct {
	proxyRepo repository.ProxyRepository
	userRepo  repository.UserRepository
	friendSvc FriendService
}

// NewProxyService creates a new ProxyService
func NewProxyService(proxyRepo repository.ProxyRepository, userRepo repository.UserRepository, friendSvc FriendService) ProxyService {
	return &proxyService{
		proxyRepo: proxyRepo,
		userRepo:  userRepo,
		friendSvc: friendSvc,
	}
}

// SetProxy upserts the delegation userID→proxyUserID. An existing delegation
// keeps its identity and only refreshes expired_at.
func (s *proxyService) SetProxy(userID, proxyUserID uint64, expiredAt time.Time) (*domain.ProxyResponse, error) {
	if userID == proxyUserID {
		return nil, common.ErrSelfReference
	}
	if !expiredAt.After(time.Now()) {
		return nil, common.ErrExpiresAtNotFuture
	}

	proxyUser, err := s.userRepo.FindByID(proxyUserID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	status, err := s.friendSvc.Status(userID, proxyUserID)
	if err != nil {
		return nil, err
	}
	if status != domain.RelationAccepted {
		return nil, common.ErrNotFriends
	}

	proxy := &domain.Proxy{
		UserID:      userID,
		ProxyUserID: proxyUserID,
		ExpiredAt:   expiredAt,
	}
	if err := s.proxyRepo.Upsert(proxy); err != nil {
		return nil, err
	}

	saved, err := s.proxyRepo.FindByPair(userID, proxyUserID)
	if err != nil {
		return nil, err
	}

	return &domain.ProxyResponse{
		ID:            saved.ID,
		UserID:        saved.UserID,
		ProxyUserID:   saved.ProxyUserID,
		ProxyNickname: proxyUser.Nickname,
		ExpiredAt:     saved.ExpiredAt,
	}, nil
}

// RemoveProxy deletes the delegation userID→proxyUserID.
func (s *proxyService) RemoveProxy(userID, proxyUserID uint64) error {
	if userID == proxyUserID {
		return common.ErrSelfReference
	}

	if _, err := s.proxyRepo.FindByPair(userID, proxyUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrDelegationNotFound
		}
		return err
	}
	return s.proxyRepo.DeleteByPair(userID, proxyUserID)
}

// ListProxies returns the delegations userID has granted, expired ones included.
func (s *proxyService) ListProxies(userID uint64) ([]*domain.ProxyResponse, error) {
	proxies, err := s.proxyRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.ProxyResponse, 0, len(proxies))
	for _, p := range proxies {
		nickname := ""
		if u, err := s.userRepo.FindByID(p.ProxyUserID); err == nil {
			nickname = u.Nickname
		}
		responses = append(responses, &domain.ProxyResponse{
			ID:            p.ID,
			UserID:        p.UserID,
			ProxyUserID:   p.ProxyUserID,
			ProxyNickname: nickname,
			ExpiredAt:     p.ExpiredAt,
		})
	}
	return responses, nil
}
