package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
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
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, nickname string) *domain.User {
	t.Helper()
	user := &domain.User{
		ProviderID: "provider-" + nickname,
		Email:      nickname + "@example.com",
		Nickname:   nickname,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newFriendService(db *gorm.DB) FriendService {
	return NewFriendService(
		db,
		repository.NewFriendRepository(db),
		repository.NewProxyRepository(db),
		repository.NewUserRepository(db),
		nil,
		nil,
	)
}

// fixedClock pins Now for time-gate tests
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func TestSendRequest_CreatesPendingEdge(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	resp, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendStatusPending, resp.Status)
	assert.Equal(t, "bob", resp.FriendNickname)

	status, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationPending, status)

	// 받는 쪽에서는 received
	status, err = svc.Status(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationReceived, status)
}

func TestSendRequest_SelfReference(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")

	_, err := svc.SendRequest(alice.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrSelfReference)
}

func TestSendRequest_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")

	_, err := svc.SendRequest(alice.ID, 9999)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestSendRequest_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrRequestAlreadySent)
}

func TestSendRequest_MutualAutoAccepts(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	// 역방향 요청은 새 edge 없이 기존 요청을 수락한다
	second, err := svc.SendRequest(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendStatusAccepted, second.Status)
	assert.Equal(t, alice.ID, second.UserID)
	assert.WithinDuration(t, first.RequestedAt, second.RequestedAt, time.Second)

	var count int64
	db.Model(&domain.Friend{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// 양쪽 모두 accepted로 보여야 한다
	for _, pair := range [][2]uint64{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		status, err := svc.Status(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, domain.RelationAccepted, status)
	}
}

func TestSendRequest_WhileAcceptedOrBlocked(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Accept(bob.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrAlreadyFriends)

	_, err = svc.Block(bob.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrBlocked)
}

func TestAccept_FlipsPendingEdge(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	sent, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	accepted, err := svc.Accept(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendStatusAccepted, accepted.Status)
	// requested_at 보존
	assert.WithinDuration(t, sent.RequestedAt, accepted.RequestedAt, time.Second)
}

func TestAccept_NoPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.Accept(bob.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrRequestNotFound)

	// 수락은 요청받은 쪽만 할 수 있다
	_, err = svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Accept(alice.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrRequestNotFound)
}

func TestAccept_AlreadyAccepted(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Accept(bob.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.Accept(bob.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrRequestNotPending)
}

func TestReject_RemovesEdge(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Reject(bob.ID, alice.ID))

	status, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationNone, status)

	// 두 번째 거절은 에러
	assert.ErrorIs(t, svc.Reject(bob.ID, alice.ID), common.ErrRequestNotFound)

	// 거절 후 재요청 가능
	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestBlock_PurgesEdgesAndIsAsymmetric(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Accept(bob.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.Block(alice.ID, bob.ID)
	require.NoError(t, err)

	// 차단한 쪽에서만 blocked로 보인다
	status, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationBlocked, status)

	status, err = svc.Status(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationNone, status)

	// edge는 차단 edge 하나만 남는다
	var count int64
	db.Model(&domain.Friend{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// 차단된 쪽의 요청은 거부
	_, err = svc.SendRequest(bob.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrBlocked)
}

func TestBlock_WithoutPriorRelationship(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	resp, err := svc.Block(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendStatusBlocked, resp.Status)
}

func TestUnfriend_CascadesToDelegations(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	proxyRepo := repository.NewProxyRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Accept(bob.ID, alice.ID)
	require.NoError(t, err)

	// 양방향 위임 설정
	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, proxyRepo.Upsert(&domain.Proxy{UserID: alice.ID, ProxyUserID: bob.ID, ExpiredAt: expiry}))
	require.NoError(t, proxyRepo.Upsert(&domain.Proxy{UserID: bob.ID, ProxyUserID: alice.ID, ExpiredAt: expiry}))

	require.NoError(t, svc.Unfriend(alice.ID, bob.ID))

	status, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationNone, status)

	var proxyCount int64
	db.Model(&domain.Proxy{}).Count(&proxyCount)
	assert.Equal(t, int64(0), proxyCount)

	// edge가 없으면 에러
	assert.ErrorIs(t, svc.Unfriend(alice.ID, bob.ID), common.ErrRelationshipNotFound)
}

func TestListFriends_ShowsCounterpartProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")

	for i := 0; i < 3; i++ {
		other := createTestUser(t, db, fmt.Sprintf("friend%d", i))
		if i%2 == 0 {
			_, err := svc.SendRequest(alice.ID, other.ID)
			require.NoError(t, err)
			_, err = svc.Accept(other.ID, alice.ID)
			require.NoError(t, err)
		} else {
			// 반대 방향으로 맺어진 친구도 목록에 나와야 한다
			_, err := svc.SendRequest(other.ID, alice.ID)
			require.NoError(t, err)
			_, err = svc.Accept(alice.ID, other.ID)
			require.NoError(t, err)
		}
	}
	// pending은 목록에서 제외
	pending := createTestUser(t, db, "pending")
	_, err := svc.SendRequest(alice.ID, pending.ID)
	require.NoError(t, err)

	friends, err := svc.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 3)
	for _, f := range friends {
		assert.NotEqual(t, "alice", f.FriendNickname)
		assert.Equal(t, domain.FriendStatusAccepted, f.Status)
	}
}

func TestSearchByNickname_AnnotatesStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bobby")
	createTestUser(t, db, "bobcat")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	results, err := svc.SearchByNickname(alice.ID, "bob")
	require.NoError(t, err)
	require.Len(t, results, 2)

	byNickname := map[string]domain.RelationStatus{}
	for _, r := range results {
		byNickname[r.Nickname] = r.FriendStatus
	}
	assert.Equal(t, domain.RelationPending, byNickname["bobby"])
	assert.Equal(t, domain.RelationNone, byNickname["bobcat"])
}

func TestSearchByNickname_ExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "alicia")

	results, err := svc.SearchByNickname(alice.ID, "ali")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alicia", results[0].Nickname)
}
