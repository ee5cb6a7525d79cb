package router

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/logger"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetRouter(router *gin.Engine) {
	SetApiRouter(router)
	SetWebRouter(router)

	// Swagger 文档 URL（优先使用环境变量）
	swaggerURL := os.Getenv("SWAGGER_JSON_URL")
	if swaggerURL != "" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL(swaggerURL),
		))
		logger.SysLog(fmt.Sprintf("Swagger UI enabled at /swagger/index.html (doc: %s)", swaggerURL))
	}

	// 前端是独立部署的 SPA，未知路由重定向过去
	if config.FrontendBaseURL != "" {
		frontendBaseUrl := strings.TrimSuffix(config.FrontendBaseURL, "/")
		router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, fmt.Sprintf("%s%s", frontendBaseUrl, c.Request.RequestURI))
		})
	}
}
