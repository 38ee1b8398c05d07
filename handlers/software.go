package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtrack/models"
	"devtrack/service"
)

func CreateSoftware(registry *service.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateSoftwareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		software, err := registry.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusCreated, software)
	}
}

func ListSoftware(registry *service.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		software, err := registry.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		if software == nil {
			software = []models.Software{}
		}

		c.JSON(http.StatusOK, software)
	}
}

func GetSoftware(registry *service.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		software, err := registry.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, software)
	}
}

func DeleteSoftware(registry *service.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := registry.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Software and related data deleted successfully"})
	}
}
