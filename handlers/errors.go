package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtrack/models"
	"devtrack/validation"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []models.FieldError `json:"details,omitempty"`
}

// respondError maps the error taxonomy onto HTTP statuses. Anything it does
// not recognise is a 500 whose cause is logged but never sent.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: validationErr.Errors})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
	_ = c.Error(err)
}

// respondBindError reports a body or query that could not be decoded or
// failed its binding rules.
func respondBindError(c *gin.Context, err error) {
	if fields, ok := validation.FromError(err); ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: fields})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid request",
		Details: []models.FieldError{{Field: "body", Message: err.Error()}},
	})
}
