package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCreditsBalance 查余额，优先走监控协程维护的缓存
func GetCreditsBalance(c *gin.Context) {
	token := c.GetString("token")
	userId := c.GetString("id")

	credits, err := creditsMon.GetBalance(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	// 查过余额的用户进入周期刷新，登出时停
	creditsMon.Watch(userId, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"credits": credits,
		},
	})
}
