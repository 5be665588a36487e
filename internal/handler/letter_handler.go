package handler

import (
	"strconv"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// LetterHandler handles letter endpoints
type LetterHandler struct {
	service service.LetterService
}

// NewLetterHandler creates a new LetterHandler
func NewLetterHandler(service service.LetterService) *LetterHandler {
	return &LetterHandler{service: service}
}

// pageQuery reads page/limit query parameters with defaults
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// Send handles POST /api/letters
func (h *LetterHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.LetterSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	resp, err := h.service.Send(userID, &req)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, resp)
}

// GetDetail handles GET /api/letters/:letterId
func (h *LetterHandler) GetDetail(c *gin.Context) {
	userID := middleware.GetUserID(c)
	letterID, ok := parseIDParam(c, "letterId")
	if !ok {
		return
	}

	resp, err := h.service.GetDetail(letterID, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// GetReceived handles GET /api/letters/received
func (h *LetterHandler) GetReceived(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := pageQuery(c)

	letters, meta, err := h.service.GetReceived(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, letters, meta)
}

// GetSent handles GET /api/letters/sent
func (h *LetterHandler) GetSent(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := pageQuery(c)

	letters, meta, err := h.service.GetSent(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, letters, meta)
}

// GetBookmarked handles GET /api/letters/bookmarks
func (h *LetterHandler) GetBookmarked(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := pageQuery(c)

	letters, meta, err := h.service.GetBookmarked(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, letters, meta)
}

// GetConversation handles GET /api/letters/conversation/:friendId
func (h *LetterHandler) GetConversation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := parseIDParam(c, "friendId")
	if !ok {
		return
	}
	page, limit := pageQuery(c)

	letters, meta, err := h.service.GetConversation(userID, friendID, page, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, letters, meta)
}

// ToggleBookmark handles POST /api/letters/:letterId/bookmark
func (h *LetterHandler) ToggleBookmark(c *gin.Context) {
	userID := middleware.GetUserID(c)
	letterID, ok := parseIDParam(c, "letterId")
	if !ok {
		return
	}

	bookmarked, err := h.service.ToggleBookmark(letterID, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"bookmarked": bookmarked}, nil)
}

// Delete handles DELETE /api/letters/:letterId
func (h *LetterHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	letterID, ok := parseIDParam(c, "letterId")
	if !ok {
		return
	}

	if err := h.service.Delete(letterID, userID); err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
