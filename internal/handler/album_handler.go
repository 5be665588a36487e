package handler

import (
	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AlbumHandler handles gallery album endpoints
type AlbumHandler struct {
	service service.GalleryService
}

// NewAlbumHandler creates a new AlbumHandler
func NewAlbumHandler(service service.GalleryService) *AlbumHandler {
	return &AlbumHandler{service: service}
}

// Create handles POST /api/albums
func (h *AlbumHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.AlbumCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	album, err := h.service.CreateAlbum(userID, &req)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, album)
}

// List handles GET /api/albums
func (h *AlbumHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	albums, err := h.service.ListAlbums(userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, albums, nil)
}

// UpdateTitle handles PUT /api/albums/:albumId/title
func (h *AlbumHandler) UpdateTitle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	albumID, ok := parseIDParam(c, "albumId")
	if !ok {
		return
	}

	var req domain.AlbumTitleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	album, err := h.service.UpdateAlbumTitle(albumID, userID, req.Title)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, album, nil)
}

// Delete handles DELETE /api/albums/:albumId
func (h *AlbumHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	albumID, ok := parseIDParam(c, "albumId")
	if !ok {
		return
	}

	if err := h.service.DeleteAlbum(albumID, userID); err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// AddPhotos handles POST /api/albums/:albumId/photos
func (h *AlbumHandler) AddPhotos(c *gin.Context) {
	userID := middleware.GetUserID(c)
	albumID, ok := parseIDParam(c, "albumId")
	if !ok {
		return
	}

	var req domain.AlbumAddPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequestResponse(c, "Invalid request body")
		return
	}

	added, err := h.service.AddPhotosToAlbum(albumID, userID, req.PhotoIDs)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, added, nil)
}

// ListPhotos handles GET /api/albums/:albumId/photos
func (h *AlbumHandler) ListPhotos(c *gin.Context) {
	userID := middleware.GetUserID(c)
	albumID, ok := parseIDParam(c, "albumId")
	if !ok {
		return
	}
	page, limit := pageQuery(c)

	photos, meta, err := h.service.ListAlbumPhotos(albumID, userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, photos, meta)
}

// RemovePhoto handles DELETE /api/albums/:albumId/photos/:photoId
func (h *AlbumHandler) RemovePhoto(c *gin.Context) {
	userID := middleware.GetUserID(c)
	albumID, ok := parseIDParam(c, "albumId")
	if !ok {
		return
	}
	photoID, ok := parseIDParam(c, "photoId")
	if !ok {
		return
	}

	if err := h.service.RemovePhotoFromAlbum(albumID, photoID, userID); err != nil {
		common.ErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"removed": true}, nil)
}
