package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/models"
)

// MaxUploadBytes bounds multipart upload requests.
const MaxUploadBytes int64 = 20 << 20

// BodyLimit rejects requests whose declared length exceeds limit with 413 and
// caps the reader for the rest.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:   "Request Entity Too Large",
				Message: "Payload content length greater than maximum allowed",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
