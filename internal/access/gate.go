// Package access answers "may principal P perform action A on content item C
// at time T". Letters and time capsules share it: membership is the two-party
// sender/receiver rule, and reads by the receiver are gated on the item's open
// time when it has one.
package access

import (
	"time"

	"github.com/deartime/deartime-backend/internal/common"
)

// Action is what the principal wants to do with the item.
type Action int

const (
	// ActionRead covers content disclosure; the receiver is time-gated.
	ActionRead Action = iota
	// ActionModify covers bookmark, delete and edits; membership only.
	ActionModify
)

// Item is the slice of a content record the gate needs. A nil OpenAt means
// the item discloses immediately (letters).
type Item interface {
	GetSenderID() uint64
	GetReceiverID() uint64
	GetOpenAt() *time.Time
}

// CanAccess returns nil when principalID may perform action on item at time
// now, or the domain error describing why not. Principals always act as
// themselves; delegations are not consulted here.
func CanAccess(principalID uint64, item Item, action Action, now time.Time) error {
	isSender := item.GetSenderID() == principalID
	isReceiver := item.GetReceiverID() == principalID

	if !isSender && !isReceiver {
		return common.ErrAccessDenied
	}

	if action == ActionRead && isReceiver && !isSender {
		if openAt := item.GetOpenAt(); openAt != nil && now.Before(*openAt) {
			return common.ErrNotYetOpen
		}
	}

	return nil
}

// CanOpen reports whether principalID could read the item's content right now.
// List views use it to decide whether to include the payload.
func CanOpen(principalID uint64, item Item, now time.Time) bool {
	return CanAccess(principalID, item, ActionRead, now) == nil
}
