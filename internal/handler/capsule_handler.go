package handler

import (
	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// CapsuleHandler handles time capsule endpoints
type CapsuleHandler struct {
	service service.CapsuleService
}

// NewCapsuleHandler creates a new CapsuleHandler
func NewCapsuleHandler(service service.CapsuleService) *CapsuleHandler {
	return &CapsuleHandler{service: service}
}

// Create handles POST /api/capsules (multipart form, optional image)
func (h *CapsuleHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.CreateCapsuleRequest
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

	resp, err := h.service.Create(userID, &req, image)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, resp)
}

// Get handles GET /api/capsules/:capsuleId
func (h *CapsuleHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	capsuleID, ok := parseIDParam(c, "capsuleId")
	if !ok {
		return
	}

	resp, err := h.service.Get(capsuleID, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// List handles GET /api/capsules?type=all|received|sent|opened
func (h *CapsuleHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := pageQuery(c)

	capsuleType := domain.CapsuleType(c.DefaultQuery("type", string(domain.CapsuleTypeAll)))
	if !capsuleType.Valid() {
		common.BadRequestResponse(c, "unknown capsule type: "+string(capsuleType))
		return
	}

	capsules, meta, err := h.service.List(userID, capsuleType, page, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, capsules, meta)
}

// Delete handles DELETE /api/capsules/:capsuleId
func (h *CapsuleHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	capsuleID, ok := parseIDParam(c, "capsuleId")
	if !ok {
		return
	}

	if err := h.service.Delete(capsuleID, userID); err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
