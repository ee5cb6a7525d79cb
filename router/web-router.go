package router

import (
	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common/config"
)

// SetWebRouter 只托管上传目录，前端页面是独立部署的 SPA。
// /uploads/ 引用和编码器读取的是同一个目录。
func SetWebRouter(router *gin.Engine) {
	router.Static("/uploads", config.UploadDir)
}
