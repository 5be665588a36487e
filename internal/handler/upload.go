package handler

import (
	"errors"
	"net/http"

	"github.com/deartime/deartime-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// maxImageSize limits uploaded images to 10MB
const maxImageSize = 10 << 20

var errImageTooLarge = errors.New("이미지 크기는 10MB를 초과할 수 없습니다")

// imageFromForm reads an optional image file from a multipart form field.
// Returns (nil, nil, nil) when the field is absent. The caller must invoke
// the cleanup function when done.
func imageFromForm(c *gin.Context, field string) (*service.ImageUpload, func(), error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		// no multipart form at all is also fine
		return nil, nil, nil
	}
	if fileHeader.Size > maxImageSize {
		return nil, nil, errImageTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &service.ImageUpload{
		Body:        file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}
	return upload, func() { _ = file.Close() }, nil
}

// imagesFromForm reads every file in a multipart form field. Empty files are
// skipped. The caller must invoke the cleanup function when done.
func imagesFromForm(c *gin.Context, field string) ([]*service.ImageUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil
	}

	var uploads []*service.ImageUpload
	var closers []func()
	cleanup := func() {
		for _, close := range closers {
			close()
		}
	}

	for _, fileHeader := range form.File[field] {
		if fileHeader.Size == 0 {
			continue
		}
		if fileHeader.Size > maxImageSize {
			cleanup()
			return nil, nil, errImageTooLarge
		}

		file, err := fileHeader.Open()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = file.Close() })
		uploads = append(uploads, &service.ImageUpload{
			Body:        file,
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
		})
	}
	return uploads, cleanup, nil
}
