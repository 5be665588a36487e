package access

import (
	"testing"
	"time"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeItem struct {
	senderID   uint64
	receiverID uint64
	openAt     *time.Time
}

func (f fakeItem) GetSenderID() uint64   { return f.senderID }
func (f fakeItem) GetReceiverID() uint64 { return f.receiverID }
func (f fakeItem) GetOpenAt() *time.Time { return f.openAt }

func TestCanAccess_NonPartyDenied(t *testing.T) {
	item := fakeItem{senderID: 1, receiverID: 2}
	now := time.Now()

	assert.ErrorIs(t, CanAccess(3, item, ActionRead, now), common.ErrAccessDenied)
	assert.ErrorIs(t, CanAccess(3, item, ActionModify, now), common.ErrAccessDenied)
}

func TestCanAccess_ImmediateDisclosure(t *testing.T) {
	// open_at 없는 항목은 양측 모두 즉시 읽을 수 있다
	item := fakeItem{senderID: 1, receiverID: 2}
	now := time.Now()

	assert.NoError(t, CanAccess(1, item, ActionRead, now))
	assert.NoError(t, CanAccess(2, item, ActionRead, now))
}

func TestCanAccess_ReceiverTimeGated(t *testing.T) {
	now := time.Now()
	openAt := now.Add(time.Hour)
	item := fakeItem{senderID: 1, receiverID: 2, openAt: &openAt}

	// 보낸 사람은 개봉 시각과 무관하게 읽는다
	assert.NoError(t, CanAccess(1, item, ActionRead, now))

	assert.ErrorIs(t, CanAccess(2, item, ActionRead, now), common.ErrNotYetOpen)
	assert.NoError(t, CanAccess(2, item, ActionRead, openAt))
	assert.NoError(t, CanAccess(2, item, ActionRead, openAt.Add(time.Minute)))
}

func TestCanAccess_ModifyIgnoresOpenAt(t *testing.T) {
	now := time.Now()
	openAt := now.Add(time.Hour)
	item := fakeItem{senderID: 1, receiverID: 2, openAt: &openAt}

	// 삭제나 북마크는 개봉 전에도 가능
	assert.NoError(t, CanAccess(2, item, ActionModify, now))
}

func TestCanAccess_SelfAddressed(t *testing.T) {
	now := time.Now()
	openAt := now.Add(time.Hour)
	item := fakeItem{senderID: 1, receiverID: 1, openAt: &openAt}

	// 보낸 사람이 곧 받는 사람이면 시간 게이트를 타지 않는다
	assert.NoError(t, CanAccess(1, item, ActionRead, now))
}

func TestCanOpen(t *testing.T) {
	now := time.Now()
	openAt := now.Add(time.Hour)
	item := fakeItem{senderID: 1, receiverID: 2, openAt: &openAt}

	assert.True(t, CanOpen(1, item, now))
	assert.False(t, CanOpen(2, item, now))
	assert.True(t, CanOpen(2, item, openAt))
	assert.False(t, CanOpen(3, item, now))
}
