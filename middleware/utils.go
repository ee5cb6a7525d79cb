package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common/helper"
	"github.com/seevideo/see-video-studio/common/logger"
)

func abortWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": helper.MessageWithRequestId(message, c.GetString(logger.RequestIdKey)),
	})
	c.Abort()
	logger.Error(c.Request.Context(), message)
}
