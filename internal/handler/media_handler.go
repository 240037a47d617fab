package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// MediaHandler handles media upload endpoints.
type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadMedia godoc
// POST /api/admin/media/upload
// Stores a question image and returns the URL to put in image_url.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	url, err := h.mediaService.SaveImage(file, header)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}
