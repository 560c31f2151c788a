package handler

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
	"github.com/qs3c/classifieds_server/internal/service"
)

type ImageHandler struct {
	imageService *service.ImageService
	cfg          *config.Config
}

func NewImageHandler(imageService *service.ImageService, cfg *config.Config) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		cfg:          cfg,
	}
}

// Upload 批量上传条目图片，表单字段 images 可重复
// POST /api/v1/entries/:id/upload-image
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var uploads []service.ImageUpload
	if form, err := c.MultipartForm(); err == nil {
		for _, header := range form.File["images"] {
			if h.cfg.Upload.MaxSize > 0 && header.Size > h.cfg.Upload.MaxSize {
				response.ValidationError(c, validate.Field("images",
					fmt.Sprintf("File %s exceeds the maximum size of %d bytes.", header.Filename, h.cfg.Upload.MaxSize)))
				return
			}

			file, err := header.Open()
			if err != nil {
				writeError(c, err)
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				writeError(c, err)
				return
			}

			uploads = append(uploads, service.ImageUpload{
				Filename: header.Filename,
				Data:     data,
			})
		}
	}

	resp, err := h.imageService.Upload(c.Request.Context(), userID, entryID, uploads)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Images uploaded successfully", resp)
}

// Delete 删除单张图片
// DELETE /api/v1/entries/:id/images/:imageId
func (h *ImageHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}

	if err := h.imageService.DeleteImage(c.Request.Context(), userID, entryID, imageID); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Image deleted.", nil)
}
