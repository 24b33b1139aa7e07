package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/controller"
	"github.com/songquanpeng/image-studio/web"
)

func SetWebRouter(router *gin.Engine, studio *controller.Studio) {
	router.Use(static.Serve("/static", common.EmbedFolder(web.FS, "static")))

	router.GET("/", gzip.Gzip(gzip.DefaultCompression), studio.Index)
	studioRouter := router.Group("/studio")
	{
		studioRouter.GET("/state", studio.GetState)
		studioRouter.POST("/model", studio.SelectModel)
		studioRouter.POST("/sample", studio.ApplySample)
		studioRouter.POST("/generate", studio.Generate)
		studioRouter.GET("/images/:id", studio.Image)
		studioRouter.GET("/images/:id/download", studio.Download)
		studioRouter.POST("/close", studio.Close)
	}
}
