package router

import (
	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/controller"
	"github.com/songquanpeng/image-studio/middleware"
)

func SetRelayRouter(router *gin.Engine) {
	relayRouter := router.Group("/api")
	relayRouter.Use(middleware.RelayPanicRecover(), middleware.GenerateRateLimit())
	{
		relayRouter.POST("/generate", controller.Relay)
	}
}
