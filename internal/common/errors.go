package common

import (
	"errors"
	"net/http"
)

// Domain rule errors. Every one of these is detected before any mutation is
// applied; they are returned to the caller and never retried.
var (
	// General
	ErrUserNotFound = errors.New("존재하지 않는 사용자입니다")
	ErrForbidden    = errors.New("접근 권한이 없습니다")
	ErrUnauthorized = errors.New("인증되지 않은 사용자입니다")
	ErrInvalidInput = errors.New("잘못된 요청입니다")

	// Auth
	ErrNicknameTaken = errors.New("이미 사용 중인 닉네임입니다")
	ErrInvalidToken  = errors.New("유효하지 않은 토큰입니다")
	ErrExpiredToken  = errors.New("토큰이 만료되었습니다")

	// Friend graph
	ErrSelfReference        = errors.New("자기 자신을 대상으로 할 수 없습니다")
	ErrAlreadyFriends       = errors.New("이미 친구 관계입니다")
	ErrBlocked              = errors.New("차단된 사용자입니다")
	ErrRequestAlreadySent   = errors.New("이미 친구 요청을 보냈습니다")
	ErrRequestNotFound      = errors.New("친구 요청을 찾을 수 없습니다")
	ErrRequestNotPending    = errors.New("대기 중인 친구 요청이 아닙니다")
	ErrRelationshipNotFound = errors.New("친구 관계를 찾을 수 없습니다")

	// Proxy delegation
	ErrNotFriends         = errors.New("친구 관계가 아닌 사용자는 대리인으로 설정할 수 없습니다")
	ErrExpiresAtNotFuture = errors.New("만료 시간은 현재 시간 이후여야 합니다")
	ErrDelegationNotFound = errors.New("대리인 관계를 찾을 수 없습니다")

	// Content
	ErrItemNotFound      = errors.New("요청한 항목을 찾을 수 없습니다")
	ErrAccessDenied      = errors.New("해당 항목에 접근할 권한이 없습니다")
	ErrNotYetOpen        = errors.New("아직 열어볼 수 없는 타임캡슐입니다")
	ErrReceiverNotFriend = errors.New("친구 관계인 사용자에게만 보낼 수 있습니다")
)

// ErrStorage tags object-storage collaborator failures so they surface as
// infrastructure errors, never as domain-rule failures.
var ErrStorage = errors.New("이미지 저장소 오류가 발생했습니다")

// errorCodes maps each domain error to its stable identifier.
var errorCodes = map[error]string{
	ErrUserNotFound:         "USER_NOT_FOUND",
	ErrForbidden:            "FORBIDDEN",
	ErrUnauthorized:         "UNAUTHORIZED",
	ErrInvalidInput:         "INVALID_INPUT",
	ErrNicknameTaken:        "NICKNAME_TAKEN",
	ErrInvalidToken:         "INVALID_TOKEN",
	ErrExpiredToken:         "EXPIRED_TOKEN",
	ErrSelfReference:        "SELF_REFERENCE",
	ErrAlreadyFriends:       "ALREADY_FRIENDS",
	ErrBlocked:              "BLOCKED",
	ErrRequestAlreadySent:   "REQUEST_ALREADY_SENT",
	ErrRequestNotFound:      "REQUEST_NOT_FOUND",
	ErrRequestNotPending:    "REQUEST_NOT_PENDING",
	ErrRelationshipNotFound: "RELATIONSHIP_NOT_FOUND",
	ErrNotFriends:           "NOT_FRIENDS",
	ErrExpiresAtNotFuture:   "EXPIRES_AT_NOT_FUTURE",
	ErrDelegationNotFound:   "DELEGATION_NOT_FOUND",
	ErrItemNotFound:         "ITEM_NOT_FOUND",
	ErrAccessDenied:         "ACCESS_DENIED",
	ErrNotYetOpen:           "NOT_YET_OPEN",
	ErrReceiverNotFriend:    "RECEIVER_NOT_FRIEND",
	ErrStorage:              "STORAGE_ERROR",
}

// errorStatus maps each domain error to its HTTP status.
var errorStatus = map[error]int{
	ErrUserNotFound:         http.StatusNotFound,
	ErrForbidden:            http.StatusForbidden,
	ErrUnauthorized:         http.StatusUnauthorized,
	ErrInvalidInput:         http.StatusBadRequest,
	ErrNicknameTaken:        http.StatusBadRequest,
	ErrInvalidToken:         http.StatusUnauthorized,
	ErrExpiredToken:         http.StatusUnauthorized,
	ErrSelfReference:        http.StatusBadRequest,
	ErrAlreadyFriends:       http.StatusBadRequest,
	ErrBlocked:              http.StatusBadRequest,
	ErrRequestAlreadySent:   http.StatusBadRequest,
	ErrRequestNotFound:      http.StatusNotFound,
	ErrRequestNotPending:    http.StatusBadRequest,
	ErrRelationshipNotFound: http.StatusNotFound,
	ErrNotFriends:           http.StatusBadRequest,
	ErrExpiresAtNotFuture:   http.StatusBadRequest,
	ErrDelegationNotFound:   http.StatusNotFound,
	ErrItemNotFound:         http.StatusNotFound,
	ErrAccessDenied:         http.StatusForbidden,
	ErrNotYetOpen:           http.StatusForbidden,
	ErrReceiverNotFriend:    http.StatusBadRequest,
	ErrStorage:              http.StatusServiceUnavailable,
}

// CodeOf returns the stable identifier for err. Unknown errors map to the
// generic internal failure code so internal detail never leaks.
func CodeOf(err error) string {
	for e, code := range errorCodes {
		if errors.Is(err, e) {
			return code
		}
	}
	return "INTERNAL_SERVER_ERROR"
}

// StatusOf returns the HTTP status for err, 500 for anything unrecognized.
func StatusOf(err error) int {
	for e, status := range errorStatus {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-visible message for err. Infrastructure errors
// collapse to a generic message.
func MessageOf(err error) string {
	for e := range errorCodes {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return "알 수 없는 서버 에러가 발생했습니다"
}
