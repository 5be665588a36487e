package handler

import (
	"net/http"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/internal/service"
	"github.com/deartime/deartime-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and the current user's profile
type AuthHandler struct {
	userService service.UserService
	jwtManager  *jwt.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService service.UserService, jwtManager *jwt.Manager) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// LoginRequest login request
// OAuth 공급자 검증은 게이트웨이에서 처리하고 provider_id만 전달받음
type LoginRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
}

// RefreshRequest token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// tokenPair issues an access/refresh token pair for the user
func (h *AuthHandler) tokenPair(userID uint64, nickname string) (gin.H, error) {
	access, err := h.jwtManager.Generate(userID, nickname)
	if err != nil {
		return nil, err
	}
	refresh, err := h.jwtManager.GenerateRefresh(userID)
	if err != nil {
		return nil, err
	}
	return gin.H{"access_token": access, "refresh_token": refresh}, nil
}

// SignUp handles POST /api/auth/signup (multipart form)
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	image, cleanup, err := imageFromForm(c, "image")
	if err != nil {
		common.BadRequestResponse(c, err.Error())
		return
	}
	if cleanup != nil {
		defer cleanup()
	}

	user, err := h.userService.SignUp(req.ProviderID, req.Email, &req, image)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	tokens, err := h.tokenPair(user.ID, user.Nickname)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	tokens["user"] = user.ToProfile()

	c.JSON(http.StatusCreated, common.APIResponse{Data: tokens})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	user, err := h.userService.GetByProviderID(req.ProviderID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	tokens, err := h.tokenPair(user.ID, user.Nickname)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	tokens["user"] = user.ToProfile()

	c.JSON(http.StatusOK, common.APIResponse{Data: tokens})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	claims, err := h.jwtManager.VerifyRefresh(req.RefreshToken)
	if err != nil {
		common.UnauthorizedResponse(c, "Invalid refresh token")
		return
	}

	// 탈퇴한 사용자의 refresh 토큰 차단
	user, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	tokens, err := h.tokenPair(user.ID, user.Nickname)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, tokens, nil)
}

// CheckNickname handles GET /api/auth/nickname-check?nickname=
func (h *AuthHandler) CheckNickname(c *gin.Context) {
	nickname := c.Query("nickname")
	if nickname == "" {
		common.BadRequestResponse(c, "nickname is required")
		return
	}

	taken, err := h.userService.NicknameExists(nickname)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"available": !taken}, nil)
}

// GetMe handles GET /api/users/me (requires JWT)
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.userService.GetByID(userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, user.ToProfile(), nil)
}

// UpdateMe handles PATCH /api/users/me (multipart form, requires JWT)
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	image, cleanup, err := imageFromForm(c, "image")
	if err != nil {
		common.BadRequestResponse(c, err.Error())
		return
	}
	if cleanup != nil {
		defer cleanup()
	}

	user, err := h.userService.UpdateProfile(userID, &req, image)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, user.ToProfile(), nil)
}
