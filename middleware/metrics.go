package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/monitor"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		monitor.IncrementConcurrent()
		defer monitor.DecrementConcurrent()

		c.Next()

		statusCode := c.Writer.Status()
		// 2xx and 3xx count as success
		success := statusCode >= 200 && statusCode < 400
		monitor.RecordRequest(time.Since(startTime), statusCode, success)
	}
}
