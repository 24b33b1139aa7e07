package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/controller"
	"github.com/songquanpeng/image-studio/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const swaggerURL = "/static/swagger.json"

func SetRouter(router *gin.Engine, studio *controller.Studio) {
	router.Use(middleware.CORS())
	SetApiRouter(router)
	SetRelayRouter(router)
	SetWebRouter(router, studio)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL(swaggerURL),
	))
	logger.SysLog("Swagger UI enabled at /swagger/index.html (doc: " + swaggerURL + ")")

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	})
}
