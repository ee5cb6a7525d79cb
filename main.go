package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/helper"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/controller"
	"github.com/seevideo/see-video-studio/middleware"
	"github.com/seevideo/see-video-studio/model"
	"github.com/seevideo/see-video-studio/router"
)

func main() {
	common.Init()
	logger.SetupLogger()
	logger.SysLog(fmt.Sprintf("%s %s started", config.SystemName, common.Version))
	common.StartTime = helper.GetTimestamp()

	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.DebugEnabled {
		logger.SysLog("running in debug mode")
	}

	// Initialize SQL Database
	err := model.InitDB()
	if err != nil {
		logger.FatalLog("failed to initialize database: " + err.Error())
	}
	defer func() {
		err := model.CloseDB()
		if err != nil {
			logger.FatalLog("failed to close database: " + err.Error())
		}
	}()

	// Initialize Redis
	err = common.InitRedisClient()
	if err != nil {
		logger.FatalLog("failed to initialize Redis: " + err.Error())
	}
	if common.RedisEnabled {
		config.MemoryCacheEnabled = true
	}
	if config.MemoryCacheEnabled {
		logger.SysLog("memory cache enabled")
	}

	// 上游客户端、提交控制器和余额监控
	err = controller.Setup()
	if err != nil {
		logger.FatalLog("failed to initialize upstream client: " + err.Error())
	}
	defer controller.StopBackground()
	logger.SysLog("upstream gateway ready: " + config.UpstreamBaseURL)

	if config.StripePaymentEnabled && config.StripePrivateKey == "" {
		logger.SysError("STRIPE_PAYMENT_ENABLED is set but STRIPE_PRIVATE_KEY is empty, payment will fail")
	}

	// Initialize HTTP server
	server := gin.New()
	server.Use(middleware.PanicRecover())
	server.Use(middleware.RequestId())
	middleware.SetUpLogger(server)
	// Initialize session store
	store := cookie.NewStore([]byte(config.SessionSecret))
	server.Use(sessions.Sessions("session", store))

	router.SetRouter(server)
	var port = os.Getenv("PORT")
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}
	err = server.Run(":" + port)
	if err != nil {
		logger.FatalLog("failed to start HTTP server: " + err.Error())
	}
}
