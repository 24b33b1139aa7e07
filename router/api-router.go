package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/controller"
	"github.com/songquanpeng/image-studio/middleware"
)

func SetApiRouter(router *gin.Engine) {
	apiRouter := router.Group("/api")
	apiRouter.Use(gzip.Gzip(gzip.DefaultCompression))
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", controller.GetStatus)
		apiRouter.GET("/models", controller.ListModels)
		apiRouter.GET("/log", controller.GetGenerationLogs)
		apiRouter.GET("/feed", controller.GetFeed)
		apiRouter.GET("/monitor/health", controller.GetHealth)
	}
}
