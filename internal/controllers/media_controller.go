package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/models"
	"explorer-be/internal/repository"
	"explorer-be/internal/service"
)

type MediaController struct {
	mediaService service.MediaService
}

func NewMediaController(mediaService service.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

// uploadedFiles returns every file part of the request, whatever its field name.
func uploadedFiles(c *gin.Context) ([]*multipart.FileHeader, int, error) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		return nil, http.StatusBadRequest, err
	}

	var files []*multipart.FileHeader
	for _, headers := range form.File {
		files = append(files, headers...)
	}
	return files, http.StatusOK, nil
}

// Upload handles POST /api/pois/:id/upload
func (mc *MediaController) Upload(c *gin.Context) {
	files, status, err := uploadedFiles(c)
	if err != nil {
		if status == http.StatusRequestEntityTooLarge {
			respondError(c, status, "Payload content length greater than maximum allowed")
			return
		}
		respondError(c, status, "Expected a multipart/form-data body with an image")
		return
	}

	images, err := mc.mediaService.Upload(c.Request.Context(), c.Param("id"), files)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "POI not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to upload image(s)")
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Message: "Images uploaded successfully",
		Images:  images,
	})
}

// DeleteImage handles DELETE /api/pois/:id/images/:filename
func (mc *MediaController) DeleteImage(c *gin.Context) {
	images, err := mc.mediaService.DeleteImage(c.Request.Context(), c.Param("id"), c.Param("filename"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "POI not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to delete image")
		return
	}
	c.JSON(http.StatusOK, models.ImagesResponse{Images: images})
}
