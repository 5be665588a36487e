package service

import (
	"errors"

	"github.com/deartime/deartime-backend/internal/access"
	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	"gorm.io/gorm"
)

// known letter theme codes; unknown codes fall back to the default with a
// warning instead of failing the send
const defaultLetterTheme = "DEFAULT"

var letterThemes = map[string]bool{
	"DEFAULT": true,
	"VINTAGE": true,
	"NIGHT":   true,
	"SPRING":  true,
}

// LetterService owns the letter lifecycle: send, time-ungated read with the
// first-read flag flip, bookmark toggling and dual-party soft delete.
type LetterService interface {
	Send(senderID uint64, req *domain.LetterSendRequest) (*domain.LetterSendResponse, error)
	GetDetail(letterID, userID uint64) (*domain.LetterDetailResponse, error)
	GetReceived(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error)
	GetSent(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error)
	GetBookmarked(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error)
	GetConversation(userID, targetID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error)
	ToggleBookmark(letterID, userID uint64) (bool, error)
	Delete(letterID, userID uint64) error
}

type letterService struct {
	repo     repository.LetterRepository
	userRepo repository.UserRepository
	notifier Notifier
	clock    Clock
}

// NewLetterService creates a new LetterService. notifier may be nil.
func NewLetterService(repo repository.LetterRepository, userRepo repository.UserRepository, notifier Notifier, clock Clock) LetterService {
	if clock == nil {
		clock = systemClock{}
	}
	return &letterService{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
		clock:    clock,
	}
}

// Send delivers a letter immediately. Letters require no friendship; only
// self-sends are refused.
func (s *letterService) Send(senderID uint64, req *domain.LetterSendRequest) (*domain.LetterSendResponse, error) {
	if senderID == req.ReceiverID {
		return nil, common.ErrSelfReference
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	receiver, err := s.userRepo.FindByID(req.ReceiverID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	theme := req.Theme
	warning := ""
	if theme == "" {
		theme = defaultLetterTheme
		warning = "테마를 지정하지 않아 'DEFAULT' 테마로 저장됩니다"
	} else if !letterThemes[theme] {
		warning = "요청하신 테마 코드를 찾을 수 없어 'DEFAULT' 테마로 대체하여 저장됩니다"
		theme = defaultLetterTheme
	}

	letter := &domain.Letter{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Theme:      theme,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := s.repo.Create(letter); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(req.ReceiverID, domain.NotificationLetterReceived, letter.ID)
	}

	return &domain.LetterSendResponse{
		LetterID:         letter.ID,
		SenderNickname:   sender.Nickname,
		ReceiverNickname: receiver.Nickname,
		CreatedAt:        letter.CreatedAt,
		Message:          "편지가 성공적으로 발송되었습니다",
		Warning:          warning,
	}, nil
}

// GetDetail returns the letter and, when the reader is the receiver, flips the
// read flag once as a side effect.
func (s *letterService) GetDetail(letterID, userID uint64) (*domain.LetterDetailResponse, error) {
	letter, err := s.findLetter(letterID)
	if err != nil {
		return nil, err
	}
	if s.hiddenFrom(letter, userID) {
		return nil, common.ErrItemNotFound
	}
	if err := access.CanAccess(userID, letter, access.ActionRead, s.clock.Now()); err != nil {
		return nil, err
	}

	if letter.ReceiverID == userID && !letter.IsRead {
		if err := s.repo.MarkAsRead(letterID); err != nil {
			return nil, err
		}
		letter.IsRead = true
	}

	bookmarked, err := s.repo.IsBookmarked(userID, letterID)
	if err != nil {
		return nil, err
	}
	return letter.ToDetail(bookmarked), nil
}

func (s *letterService) GetReceived(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	letters, total, err := s.repo.FindReceived(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return s.toListItems(letters, userID), &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

func (s *letterService) GetSent(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	letters, total, err := s.repo.FindSent(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return s.toListItems(letters, userID), &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

func (s *letterService) GetBookmarked(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	letters, total, err := s.repo.FindBookmarked(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	items := make([]*domain.LetterListItem, len(letters))
	for i, l := range letters {
		items[i] = l.ToListItem(true)
	}
	return items, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

func (s *letterService) GetConversation(userID, targetID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error) {
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return nil, nil, common.ErrUserNotFound
	}

	page, limit = normalizePage(page, limit)
	letters, total, err := s.repo.FindConversation(userID, targetID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return s.toListItems(letters, userID), &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// ToggleBookmark flips the caller's bookmark and reports the new state.
func (s *letterService) ToggleBookmark(letterID, userID uint64) (bool, error) {
	letter, err := s.findLetter(letterID)
	if err != nil {
		return false, err
	}
	if err := access.CanAccess(userID, letter, access.ActionModify, s.clock.Now()); err != nil {
		return false, err
	}
	return s.repo.ToggleBookmark(userID, letterID)
}

// Delete sets the caller's soft-delete flag; the row disappears once both
// parties have deleted. Repeating the call never errors.
func (s *letterService) Delete(letterID, userID uint64) error {
	letter, err := s.repo.FindByID(letterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// converged already; deleting an absent letter is a no-op
			return nil
		}
		return err
	}
	if err := access.CanAccess(userID, letter, access.ActionModify, s.clock.Now()); err != nil {
		return err
	}
	return s.repo.DeleteForUser(letterID, userID)
}

func (s *letterService) findLetter(letterID uint64) (*domain.Letter, error) {
	letter, err := s.repo.FindByID(letterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrItemNotFound
		}
		return nil, err
	}
	return letter, nil
}

// hiddenFrom reports whether the viewer already soft-deleted the letter on
// their side.
func (s *letterService) hiddenFrom(letter *domain.Letter, userID uint64) bool {
	if letter.SenderID == userID && letter.DeletedBySender {
		return true
	}
	if letter.ReceiverID == userID && letter.DeletedByReceiver {
		return true
	}
	return false
}

func (s *letterService) toListItems(letters []*domain.Letter, userID uint64) []*domain.LetterListItem {
	ids := make([]uint64, len(letters))
	for i, l := range letters {
		ids[i] = l.ID
	}
	bookmarked, err := s.repo.FindBookmarkedIDs(userID, ids)
	if err != nil {
		bookmarked = nil
	}

	items := make([]*domain.LetterListItem, len(letters))
	for i, l := range letters {
		items[i] = l.ToListItem(bookmarked[l.ID])
	}
	return items
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}
