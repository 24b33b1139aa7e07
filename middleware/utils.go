package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common/logger"
)

func abortWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": message,
	})
	c.Abort()
	logger.Warn(c.Request.Context(), message)
}
