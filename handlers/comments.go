package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtrack/models"
	"devtrack/service"
)

func ListComments(reviews *service.Reviews, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := reviews.ListForSoftware(c.Request.Context(), c.Param("softwareId"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		if comments == nil {
			comments = []models.Comment{}
		}

		c.JSON(http.StatusOK, comments)
	}
}

func CreateComment(reviews *service.Reviews, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		comment, err := reviews.Create(c.Request.Context(), c.Param("softwareId"), req)
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusCreated, comment)
	}
}
