package handler

import (
	"strconv"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// FriendHandler handles the relationship graph and proxy delegation endpoints
type FriendHandler struct {
	friendService service.FriendService
	proxyService  service.ProxyService
}

// NewFriendHandler creates a new FriendHandler
func NewFriendHandler(friendService service.FriendService, proxyService service.ProxyService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
		proxyService:  proxyService,
	}
}

// parseIDParam reads a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		common.BadRequestResponse(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// SendRequest handles POST /api/friends
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.FriendRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	resp, err := h.friendService.SendRequest(userID, req.FriendID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, resp)
}

// UpdateStatus handles PUT /api/friends/:friendId
// body의 status 값에 따라 수락/거절/차단으로 분기
func (h *FriendHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := parseIDParam(c, "friendId")
	if !ok {
		return
	}

	var req domain.FriendStatusUpdateDto
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	switch req.Status {
	case string(domain.FriendStatusAccepted):
		resp, err := h.friendService.Accept(userID, friendID)
		if err != nil {
			common.ErrorResponse(c, err)
			return
		}
		common.SuccessResponse(c, resp, nil)
	case "rejected":
		if err := h.friendService.Reject(userID, friendID); err != nil {
			common.ErrorResponse(c, err)
			return
		}
		common.SuccessResponse(c, gin.H{"status": req.Status}, nil)
	case string(domain.FriendStatusBlocked):
		resp, err := h.friendService.Block(userID, friendID)
		if err != nil {
			common.ErrorResponse(c, err)
			return
		}
		common.SuccessResponse(c, resp, nil)
	default:
		common.BadRequestResponse(c, "unknown status: "+req.Status)
	}
}

// Unfriend handles DELETE /api/friends/:friendId
func (h *FriendHandler) Unfriend(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := parseIDParam(c, "friendId")
	if !ok {
		return
	}

	if err := h.friendService.Unfriend(userID, friendID); err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// GetStatus handles GET /api/friends/:friendId/status
func (h *FriendHandler) GetStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := parseIDParam(c, "friendId")
	if !ok {
		return
	}

	status, err := h.friendService.Status(userID, friendID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": status}, nil)
}

// List handles GET /api/friends
func (h *FriendHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	friends, err := h.friendService.ListFriends(userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, domain.FriendListResponse{
		Count:   len(friends),
		Friends: friends,
	}, nil)
}

// Search handles GET /api/friends/search?keyword=
func (h *FriendHandler) Search(c *gin.Context) {
	userID := middleware.GetUserID(c)
	keyword := c.Query("keyword")
	if keyword == "" {
		common.BadRequestResponse(c, "keyword is required")
		return
	}

	results, err := h.friendService.SearchByNickname(userID, keyword)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, domain.FriendSearchListResponse{
		Count:   len(results),
		Results: results,
	}, nil)
}

// SetProxy handles PUT /api/friends/:friendId/proxy
func (h *FriendHandler) SetProxy(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := parseIDParam(c, "friendId")
	if !ok {
		return
	}

	var req domain.ProxyRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	resp, err := h.proxyService.SetProxy(userID, friendID, req.ExpiredAt)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// RemoveProxy handles DELETE /api/friends/:friendId/proxy
func (h *FriendHandler) RemoveProxy(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := parseIDParam(c, "friendId")
	if !ok {
		return
	}

	if err := h.proxyService.RemoveProxy(userID, friendID); err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// ListProxies handles GET /api/friends/proxies
func (h *FriendHandler) ListProxies(c *gin.Context) {
	userID := middleware.GetUserID(c)

	proxies, err := h.proxyService.ListProxies(userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, proxies, nil)
}
