package handler

import (
	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// PhotoHandler handles gallery photo endpoints
type PhotoHandler struct {
	service service.GalleryService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(service service.GalleryService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// Upload handles POST /api/photos (multipart form, one or more files)
func (h *PhotoHandler) Upload(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.PhotoUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	images, cleanup, err := imagesFromForm(c, "files")
	if err != nil {
		common.BadRequestResponse(c, err.Error())
		return
	}
	if cleanup != nil {
		defer cleanup()
	}
	if len(images) == 0 {
		common.BadRequestResponse(c, "업로드할 사진 파일이 없습니다")
		return
	}

	photos, err := h.service.UploadPhotos(userID, &req, images)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, photos)
}

// List handles GET /api/photos
func (h *PhotoHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := pageQuery(c)

	photos, meta, err := h.service.ListPhotos(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, photos, meta)
}

// UpdateCaption handles PUT /api/photos/:photoId/caption
func (h *PhotoHandler) UpdateCaption(c *gin.Context) {
	userID := middleware.GetUserID(c)
	photoID, ok := parseIDParam(c, "photoId")
	if !ok {
		return
	}

	var req domain.PhotoCaptionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	photo, err := h.service.UpdateCaption(photoID, userID, req.Caption)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, photo, nil)
}

// Delete handles DELETE /api/photos/:photoId
func (h *PhotoHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	photoID, ok := parseIDParam(c, "photoId")
	if !ok {
		return
	}

	if err := h.service.DeletePhoto(photoID, userID); err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
