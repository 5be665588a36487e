package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Token types carried in the typ claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims - deartime-backend JWT 페이로드 구조
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname,omitempty"`
	TokenType string `json:"typ,omitempty"`
}

// Manager handles JWT creation and verification
type Manager struct {
	secretKey     []byte
	expiry        time.Duration
	refreshExpiry time.Duration
}

// NewManager creates a new JWT manager
func NewManager(secret string, expiry, refreshExpiry time.Duration) *Manager {
	return &Manager{
		secretKey:     []byte(secret),
		expiry:        expiry,
		refreshExpiry: refreshExpiry,
	}
}

// Generate creates a signed access token for the given user
func (m *Manager) Generate(userID uint64, nickname string) (string, error) {
	return m.sign(userID, nickname, TokenTypeAccess, m.expiry)
}

// GenerateRefresh creates a signed refresh token for the given user
func (m *Manager) GenerateRefresh(userID uint64) (string, error) {
	return m.sign(userID, "", TokenTypeRefresh, m.refreshExpiry)
}

func (m *Manager) sign(userID uint64, nickname, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		UserID:    userID,
		Nickname:  nickname,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify parses and validates a token string
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// VerifyRefresh validates a refresh token and rejects access tokens passed in
// its place.
func (m *Manager) VerifyRefresh(tokenString string) (*Claims, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
