package router

import (
	"github.com/seevideo/see-video-studio/controller"
	"github.com/seevideo/see-video-studio/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func SetApiRouter(router *gin.Engine) {
	router.Use(middleware.CORS())
	apiRouter := router.Group("/api")
	apiRouter.Use(gzip.Gzip(gzip.DefaultCompression))
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", controller.GetStatus)

		// Stripe 回调不走用户鉴权，靠签名校验
		apiRouter.POST("/payment/webhook", controller.StripeWebhook)
		apiRouter.GET("/payment/success", controller.PaymentSuccess)
		apiRouter.GET("/payment/cancel", controller.PaymentCancel)
		apiRouter.GET("/payment/plans", controller.GetRechargePlans)

		authRoute := apiRouter.Group("/")
		authRoute.Use(middleware.UserAuth())
		{
			authRoute.POST("/generate", controller.Generate)
			authRoute.GET("/video-list", controller.GetVideoList)
			authRoute.GET("/credits/balance", controller.GetCreditsBalance)
			authRoute.POST("/upload", middleware.UploadRateLimit(), controller.Upload)

			authRoute.POST("/payment/create", middleware.CriticalRateLimit(), controller.CreatePayment)
			authRoute.GET("/payment/orders", controller.GetUserOrders)

			userRoute := authRoute.Group("/user")
			{
				userRoute.GET("/language", controller.GetLanguage)
				userRoute.PUT("/language", controller.UpdateLanguage)
				userRoute.GET("/logout", controller.Logout)
			}
		}
	}
}
