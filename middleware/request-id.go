package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common/helper"
	"github.com/songquanpeng/image-studio/common/logger"
)

func RequestId() func(c *gin.Context) {
	return func(c *gin.Context) {
		// a client supplied id wins
		id := c.GetHeader(logger.RequestIdKey)
		if id == "" {
			id = helper.GenRequestID()
		}
		c.Set(logger.RequestIdKey, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIdKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Request.Header.Set(logger.RequestIdKey, id)
		c.Header(logger.RequestIdKey, id)
		c.Next()
	}
}
