package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/config"
)

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version":        common.Version,
			"start_time":     common.StartTime,
			"system_name":    config.SystemName,
			"server_address": config.ServerAddress,
			"stripe_payment": config.StripePaymentEnabled,
			"r2_mirror":      config.CfR2MirrorEnabled,
		},
	})
}
