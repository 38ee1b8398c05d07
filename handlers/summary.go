package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtrack/models"
	"devtrack/service"
)

// GetSummary replies with the summary, or a JSON null when the project has
// none yet.
func GetSummary(summaries *service.Summaries, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, found, err := summaries.Get(c.Request.Context(), c.Param("softwareId"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		if !found {
			c.JSON(http.StatusOK, nil)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

func UpsertSummary(summaries *service.Summaries, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpsertSummaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		summary, err := summaries.Upsert(c.Request.Context(), c.Param("softwareId"), req)
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
