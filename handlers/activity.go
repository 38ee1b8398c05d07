package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtrack/models"
	"devtrack/service"
)

func AppendActivity(ledger *service.Ledger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AppendActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		entry, err := ledger.Append(c.Request.Context(), req)
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusCreated, models.AppendActivityResponse{
			Success:  true,
			Activity: *entry,
		})
	}
}

func RecentActivity(ledger *service.Ledger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.RecentActivityParams
		if err := c.ShouldBindQuery(&params); err != nil {
			respondBindError(c, err)
			return
		}

		entries, err := ledger.Recent(c.Request.Context(), params.Limit)
		if err != nil {
			respondError(c, log, err)
			return
		}
		if entries == nil {
			entries = []models.ActivityLogEntry{}
		}

		c.JSON(http.StatusOK, entries)
	}
}
