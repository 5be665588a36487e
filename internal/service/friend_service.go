package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	"github.com/deartime/deartime-backend/pkg/cache"
	pkglogger "github.com/deartime/deartime-backend/pkg/logger"
	"gorm.io/gorm"
)

// FriendService implements the relationship graph: request, accept, reject,
// block and unfriend transitions over directed edges, plus the bidirectional
// status derivation every caller must share.
type FriendService interface {
	SendRequest(userID, friendID uint64) (*domain.FriendResponse, error)
	Accept(userID, requesterID uint64) (*domain.FriendResponse, error)
	Reject(userID, requesterID uint64) error
	Block(userID, targetID uint64) (*domain.FriendResponse, error)
	Unfriend(userID, friendID uint64) error
	Status(userID, otherID uint64) (domain.RelationStatus, error)
	ListFriends(userID uint64) ([]*domain.FriendResponse, error)
	SearchByNickname(userID uint64, keyword string) ([]*domain.FriendSearchResponse, error)
}

type friendService struct {
	db         *gorm.DB
	friendRepo repository.FriendRepository
	proxyRepo  repository.ProxyRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	cache      cache.Service
}

// NewFriendService creates a new FriendService. notifier and cacheSvc may be nil.
func NewFriendService(db *gorm.DB, friendRepo repository.FriendRepository, proxyRepo repository.ProxyRepository, userRepo repository.UserRepository, notifier Notifier, cacheSvc cache.Service) FriendService {
	return &friendService{
		db:         db,
		friendRepo: friendRepo,
		proxyRepo:  proxyRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		cache:      cacheSvc,
	}
}

// SendRequest creates a pending edge userID→friendID, or auto-accepts when the
// target already has a pending request towards the caller. The whole decision
// runs on locked pair rows so two mutual requests racing each other converge
// on a single accepted edge.
func (s *friendService) SendRequest(userID, friendID uint64) (*domain.FriendResponse, error) {
	if userID == friendID {
		return nil, common.ErrSelfReference
	}

	friend, err := s.userRepo.FindByID(friendID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	var result *domain.Friend
	err = s.db.Transaction(func(tx *gorm.DB) error {
		fr := s.friendRepo.WithTx(tx)

		edges, err := fr.FindBetweenForUpdate(userID, friendID)
		if err != nil {
			return err
		}

		// 결정 순서: accepted > blocked > 상대방의 pending(자동 수락) > 내 pending
		for _, edge := range edges {
			if edge.Status == domain.FriendStatusAccepted {
				return common.ErrAlreadyFriends
			}
		}
		for _, edge := range edges {
			if edge.Status == domain.FriendStatusBlocked {
				return common.ErrBlocked
			}
		}
		for _, edge := range edges {
			if edge.Status != domain.FriendStatusPending {
				continue
			}
			if edge.UserID == friendID && edge.FriendID == userID {
				// 상대방이 먼저 요청한 경우 자동 수락; requested_at은 보존
				if err := fr.UpdateStatus(friendID, userID, domain.FriendStatusAccepted); err != nil {
					return err
				}
				edge.Status = domain.FriendStatusAccepted
				result = edge
				return nil
			}
			if edge.UserID == userID && edge.FriendID == friendID {
				return common.ErrRequestAlreadySent
			}
		}

		edge := &domain.Friend{
			UserID:      userID,
			FriendID:    friendID,
			Status:      domain.FriendStatusPending,
			RequestedAt: time.Now(),
		}
		if err := fr.Create(edge); err != nil {
			return err
		}
		result = edge
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status == domain.FriendStatusAccepted {
		s.invalidateFriendLists(userID, friendID)
	}
	if s.notifier != nil && result.Status == domain.FriendStatusPending {
		s.notifier.Notify(friendID, domain.NotificationFriendRequest, result.UserID)
	}

	return domain.NewFriendResponse(result, friend.ToProfile()), nil
}

// Accept flips the pending edge requesterID→userID to accepted, preserving
// its requested_at.
func (s *friendService) Accept(userID, requesterID uint64) (*domain.FriendResponse, error) {
	if userID == requesterID {
		return nil, common.ErrSelfReference
	}

	requester, err := s.userRepo.FindByID(requesterID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	var accepted *domain.Friend
	err = s.db.Transaction(func(tx *gorm.DB) error {
		fr := s.friendRepo.WithTx(tx)

		edges, err := fr.FindBetweenForUpdate(requesterID, userID)
		if err != nil {
			return err
		}
		edge := pickEdge(edges, requesterID, userID)
		if edge == nil {
			return common.ErrRequestNotFound
		}
		if edge.Status != domain.FriendStatusPending {
			return common.ErrRequestNotPending
		}
		if err := fr.UpdateStatus(requesterID, userID, domain.FriendStatusAccepted); err != nil {
			return err
		}
		edge.Status = domain.FriendStatusAccepted
		accepted = edge
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFriendLists(userID, requesterID)
	return domain.NewFriendResponse(accepted, requester.ToProfile()), nil
}

// Reject deletes the pending edge requesterID→userID. A repeated reject
// surfaces ErrRequestNotFound rather than silently succeeding.
func (s *friendService) Reject(userID, requesterID uint64) error {
	if userID == requesterID {
		return common.ErrSelfReference
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		fr := s.friendRepo.WithTx(tx)

		edges, err := fr.FindBetweenForUpdate(requesterID, userID)
		if err != nil {
			return err
		}
		edge := pickEdge(edges, requesterID, userID)
		if edge == nil {
			return common.ErrRequestNotFound
		}
		if edge.Status != domain.FriendStatusPending {
			return common.ErrRequestNotPending
		}
		return fr.DeleteEdge(requesterID, userID)
	})
}

// Block purges every edge between the pair and records a single blocked edge
// userID→targetID. Blocking is one-directional: the blocked party derives
// "none" from their side.
func (s *friendService) Block(userID, targetID uint64) (*domain.FriendResponse, error) {
	if userID == targetID {
		return nil, common.ErrSelfReference
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	blocked := &domain.Friend{
		UserID:      userID,
		FriendID:    targetID,
		Status:      domain.FriendStatusBlocked,
		RequestedAt: time.Now(),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		fr := s.friendRepo.WithTx(tx)

		if _, err := fr.FindBetweenForUpdate(userID, targetID); err != nil {
			return err
		}
		if err := fr.DeleteBetween(userID, targetID); err != nil {
			return err
		}
		return fr.Create(blocked)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFriendLists(userID, targetID)
	pkglogger.GetLogger().Info().
		Uint64("user_id", userID).
		Uint64("target_id", targetID).
		Msg("user blocked")

	return domain.NewFriendResponse(blocked, target.ToProfile()), nil
}

// Unfriend deletes every edge between the pair and cascades to every
// delegation between them, in either direction, atomically.
func (s *friendService) Unfriend(userID, friendID uint64) error {
	if userID == friendID {
		return common.ErrSelfReference
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		fr := s.friendRepo.WithTx(tx)
		pr := s.proxyRepo.WithTx(tx)

		edges, err := fr.FindBetweenForUpdate(userID, friendID)
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			return common.ErrRelationshipNotFound
		}
		if err := fr.DeleteBetween(userID, friendID); err != nil {
			return err
		}
		return pr.DeleteBetween(userID, friendID)
	})
	if err != nil {
		return err
	}

	s.invalidateFriendLists(userID, friendID)
	return nil
}

// Status derives the relationship as seen from userID. The same derivation
// backs every surface that shows relationship state.
func (s *friendService) Status(userID, otherID uint64) (domain.RelationStatus, error) {
	edge, err := s.friendRepo.FindEdge(userID, otherID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RelationNone, err
	}
	if edge != nil {
		return domain.RelationStatus(edge.Status), nil
	}

	reverse, err := s.friendRepo.FindEdge(otherID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RelationNone, nil
		}
		return domain.RelationNone, err
	}
	switch reverse.Status {
	case domain.FriendStatusPending:
		return domain.RelationReceived, nil
	case domain.FriendStatusAccepted:
		return domain.RelationAccepted, nil
	default:
		// 차단은 차단한 쪽에서만 보임
		return domain.RelationNone, nil
	}
}

// ListFriends returns accepted relationships with the other party's public
// fields, regardless of which side originally requested. Cached in redis;
// every graph mutation invalidates both parties' lists.
func (s *friendService) ListFriends(userID uint64) ([]*domain.FriendResponse, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		var cached []*domain.FriendResponse
		if err := s.cache.Get(context.Background(), friendListKey(userID), &cached); err == nil {
			return cached, nil
		}
	}

	edges, err := s.friendRepo.FindAcceptedByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.FriendResponse, 0, len(edges))
	for _, edge := range edges {
		otherID := edge.FriendID
		if otherID == userID {
			otherID = edge.UserID
		}
		other, err := s.userRepo.FindByID(otherID)
		if err != nil {
			continue
		}
		responses = append(responses, domain.NewFriendResponse(edge, other.ToProfile()))
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.Set(context.Background(), friendListKey(userID), responses, cache.TTLDefault); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("friend list cache set failed")
		}
	}
	return responses, nil
}

func friendListKey(userID uint64) string {
	return fmt.Sprintf("%slist:%d", cache.PrefixFriend, userID)
}

// invalidateFriendLists drops both parties' cached friend lists. Best-effort.
func (s *friendService) invalidateFriendLists(userIDs ...uint64) {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = friendListKey(id)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, keys...); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("friend list cache invalidation failed")
	}
}

// SearchByNickname finds users by nickname keyword and annotates each hit with
// the derived relationship status.
func (s *friendService) SearchByNickname(userID uint64, keyword string) ([]*domain.FriendSearchResponse, error) {
	users, err := s.userRepo.SearchByNickname(keyword, userID)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.FriendSearchResponse, 0, len(users))
	for _, u := range users {
		status, err := s.Status(userID, u.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, &domain.FriendSearchResponse{
			UserID:          u.ID,
			Nickname:        u.Nickname,
			ProfileImageURL: u.ProfileImageURL,
			Bio:             u.Bio,
			FriendStatus:    status,
		})
	}
	return results, nil
}

// pickEdge returns the edge userID→friendID out of a pair query, or nil.
func pickEdge(edges []*domain.Friend, userID, friendID uint64) *domain.Friend {
	for _, edge := range edges {
		if edge.UserID == userID && edge.FriendID == friendID {
			return edge
		}
	}
	return nil
}
