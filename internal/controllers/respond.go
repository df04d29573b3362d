package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/logging"
	"explorer-be/internal/models"
	"explorer-be/internal/validation"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func respondValidation(c *gin.Context, errs *validation.Errors) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:      http.StatusText(http.StatusBadRequest),
		Message:    errs.Error(),
		Violations: errs.Violations,
	})
}

// respondInternal logs err and answers with a generic 500.
func respondInternal(c *gin.Context, err error, message string) {
	logging.Ctx(c.Request.Context()).Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg(message)
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, message)
}
