package controller

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/model"
)

func GetRechargePlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"plans":    model.RechargePlans,
			"currency": config.PaymentCurrency,
			"enabled":  config.StripePaymentEnabled,
		},
	})
}

// CreatePayment 按 {amount, credits} 下单，返回 Stripe Checkout 跳转地址
func CreatePayment(c *gin.Context) {
	if !config.StripePaymentEnabled {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "payment is not enabled",
		})
		return
	}
	var req struct {
		Amount  int64 `json:"amount" binding:"required"`
		Credits int64 `json:"credits" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	userId := c.GetString("id")
	checkoutUrl, orderNo, err := model.CreateStripeOrder(userId, req.Amount, req.Credits)
	if err != nil {
		logger.Errorf(c.Request.Context(), "failed to create stripe order: %s", err.Error())
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"checkoutUrl": checkoutUrl,
			"order_no":    orderNo,
		},
	})
}

func StripeWebhook(c *gin.Context) {
	err := model.HandleStripeWebhook(c.Request)
	if err != nil {
		logger.SysLog(fmt.Sprintf("stripe webhook rejected: %s", err.Error()))
		c.String(http.StatusBadRequest, "fail")
		return
	}
	c.String(http.StatusOK, "ok")
}

// PaymentSuccess Stripe 支付完成后的回跳。配了前端地址就跳回去，
// 否则直接给 JSON。
func PaymentSuccess(c *gin.Context) {
	orderNo := c.Query("order_no")
	redirectToFrontend(c, orderNo, "success")
}

func PaymentCancel(c *gin.Context) {
	orderNo := c.Query("order_no")
	redirectToFrontend(c, orderNo, "cancel")
}

func redirectToFrontend(c *gin.Context, orderNo string, result string) {
	if config.FrontendBaseURL != "" {
		target := fmt.Sprintf("%s/credits?payment=%s&order_no=%s",
			config.FrontendBaseURL, result, url.QueryEscape(orderNo))
		c.Redirect(http.StatusFound, target)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": result == "success",
		"message": fmt.Sprintf("payment %s", result),
		"data": gin.H{
			"order_no": orderNo,
		},
	})
}

func GetUserOrders(c *gin.Context) {
	userId := c.GetString("id")
	orders, err := model.ListOrdersByUser(userId, 20)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"list": orders,
		},
	})
}
