package service

import (
	"testing"
	"time"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCapsuleService(db *gorm.DB, clock Clock) CapsuleService {
	return NewCapsuleService(
		repository.NewCapsuleRepository(db),
		newFriendService(db),
		repository.NewUserRepository(db),
		nil,
		nil,
		clock,
	)
}

func TestCreateCapsule_RequiresAcceptedFriendship(t *testing.T) {
	db := setupTestDB(t)
	svc := newCapsuleService(db, nil)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	req := &domain.CreateCapsuleRequest{
		ReceiverID: bob.ID,
		Title:      "미래에게",
		Content:    "열어봐",
		OpenAt:     time.Now().Add(24 * time.Hour),
	}

	_, err := svc.Create(alice.ID, req, nil)
	assert.ErrorIs(t, err, common.ErrReceiverNotFriend)

	// 거부됐으면 아무 행도 남지 않는다
	var count int64
	db.Model(&domain.TimeCapsule{}).Count(&count)
	assert.Equal(t, int64(0), count)

	makeFriends(t, db, alice, bob)

	resp, err := svc.Create(alice.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, resp.SenderID)
	assert.Equal(t, bob.ID, resp.ReceiverID)
	assert.True(t, resp.CanOpen)
	assert.Equal(t, "열어봐", resp.Content)
}

func TestCreateCapsule_SelfReference(t *testing.T) {
	db := setupTestDB(t)
	svc := newCapsuleService(db, nil)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Create(alice.ID, &domain.CreateCapsuleRequest{
		ReceiverID: alice.ID,
		Title:      "나에게",
		Content:    "안녕",
		OpenAt:     time.Now().Add(time.Hour),
	}, nil)
	assert.ErrorIs(t, err, common.ErrSelfReference)
}

func TestGetCapsule_ReceiverTimeGated(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	clock := &fixedClock{now: now}
	svc := newCapsuleService(db, clock)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	makeFriends(t, db, alice, bob)

	openAt := now.Add(48 * time.Hour)
	resp, err := svc.Create(alice.ID, &domain.CreateCapsuleRequest{
		ReceiverID: bob.ID,
		Title:      "이틀 뒤에",
		Content:    "기다려",
		OpenAt:     openAt,
	}, nil)
	require.NoError(t, err)

	// 보낸 사람은 개봉 전에도 읽는다
	got, err := svc.Get(resp.CapsuleID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "기다려", got.Content)

	_, err = svc.Get(resp.CapsuleID, bob.ID)
	assert.ErrorIs(t, err, common.ErrNotYetOpen)

	// 시간이 지나면 열린다
	clock.now = openAt.Add(time.Minute)
	got, err = svc.Get(resp.CapsuleID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "기다려", got.Content)
}

func TestGetCapsule_NonParty(t *testing.T) {
	db := setupTestDB(t)
	svc := newCapsuleService(db, nil)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	makeFriends(t, db, alice, bob)

	resp, err := svc.Create(alice.ID, &domain.CreateCapsuleRequest{
		ReceiverID: bob.ID,
		Title:      "둘만의 비밀",
		Content:    "내용",
		OpenAt:     time.Now().Add(time.Hour),
	}, nil)
	require.NoError(t, err)

	_, err = svc.Get(resp.CapsuleID, carol.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = svc.Get(9999, alice.ID)
	assert.ErrorIs(t, err, common.ErrItemNotFound)
}

func TestListCapsules_HidesUnopenedContent(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	clock := &fixedClock{now: now}
	svc := newCapsuleService(db, clock)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	makeFriends(t, db, alice, bob)

	_, err := svc.Create(alice.ID, &domain.CreateCapsuleRequest{
		ReceiverID: bob.ID,
		Title:      "아직 이르다",
		Content:    "봉인된 내용",
		OpenAt:     now.Add(24 * time.Hour),
	}, nil)
	require.NoError(t, err)

	items, meta, err := svc.List(bob.ID, domain.CapsuleTypeReceived, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
	require.Len(t, items, 1)

	// 제목은 보이고 내용은 숨겨진다
	assert.Equal(t, "아직 이르다", items[0].Title)
	assert.False(t, items[0].CanOpen)
	assert.Empty(t, items[0].Content)
	assert.Empty(t, items[0].ImageURL)

	// 보낸 사람 목록에서는 내용이 그대로 보인다
	items, _, err = svc.List(alice.ID, domain.CapsuleTypeSent, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].CanOpen)
	assert.Equal(t, "봉인된 내용", items[0].Content)
}

func TestListCapsules_TypeFilter(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	clock := &fixedClock{now: now}
	svc := newCapsuleService(db, clock)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	makeFriends(t, db, alice, bob)

	_, err := svc.Create(alice.ID, &domain.CreateCapsuleRequest{
		ReceiverID: bob.ID,
		Title:      "이미 열림",
		Content:    "a",
		OpenAt:     now.Add(time.Minute),
	}, nil)
	require.NoError(t, err)
	_, err = svc.Create(bob.ID, &domain.CreateCapsuleRequest{
		ReceiverID: alice.ID,
		Title:      "한참 뒤",
		Content:    "b",
		OpenAt:     now.Add(72 * time.Hour),
	}, nil)
	require.NoError(t, err)

	clock.now = now.Add(time.Hour)

	// 빈 타입은 all로 취급
	items, meta, err := svc.List(alice.ID, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Total)
	assert.Len(t, items, 2)

	_, meta, err = svc.List(alice.ID, domain.CapsuleTypeSent, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)

	_, meta, err = svc.List(bob.ID, domain.CapsuleTypeOpened, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)

	_, _, err = svc.List(alice.ID, "archived", 1, 20)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestDeleteCapsule_Convergence(t *testing.T) {
	db := setupTestDB(t)
	svc := newCapsuleService(db, nil)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	makeFriends(t, db, alice, bob)

	resp, err := svc.Create(alice.ID, &domain.CreateCapsuleRequest{
		ReceiverID: bob.ID,
		Title:      "삭제 수렴",
		Content:    "내용",
		OpenAt:     time.Now().Add(time.Hour),
	}, nil)
	require.NoError(t, err)

	// 받는 사람은 개봉 전에도 삭제할 수 있다
	require.NoError(t, svc.Delete(resp.CapsuleID, bob.ID))

	// 자기가 지운 캡슐은 개봉 시간과 무관하게 보이지 않는다
	_, err = svc.Get(resp.CapsuleID, bob.ID)
	assert.ErrorIs(t, err, common.ErrItemNotFound)

	// 보낸 사람 쪽에서는 여전히 조회된다
	_, err = svc.Get(resp.CapsuleID, alice.ID)
	assert.NoError(t, err)

	var count int64
	db.Model(&domain.TimeCapsule{}).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.Delete(resp.CapsuleID, alice.ID))
	db.Model(&domain.TimeCapsule{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// 사라진 캡슐 삭제는 no-op
	assert.NoError(t, svc.Delete(resp.CapsuleID, bob.ID))
}
