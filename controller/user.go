package controller

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/model"
)

// GetLanguage 读用户语言偏好。cookie session 里有就直接用，
// 否则查库并回写 session，没设置过默认 en。
func GetLanguage(c *gin.Context) {
	session := sessions.Default(c)
	if cached, ok := session.Get("language").(string); ok && cached != "" {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "",
			"data": gin.H{
				"language": cached,
			},
		})
		return
	}

	userId := c.GetString("id")
	language, err := model.GetSessionValue(userId, model.SessionKeyLanguage)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	if language == "" {
		language = "en"
	}
	session.Set("language", language)
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"language": language,
		},
	})
}

func UpdateLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language" binding:"required,oneof=en zh"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	userId := c.GetString("id")
	if err := model.SetSessionValue(userId, model.SessionKeyLanguage, req.Language); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	session := sessions.Default(c)
	session.Set("language", req.Language)
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}

// Logout 停掉余额刷新、清空键值偏好和 cookie session
func Logout(c *gin.Context) {
	userId := c.GetString("id")
	creditsMon.Stop(userId)
	if err := model.ClearSession(userId); err != nil {
		logger.Errorf(c.Request.Context(), "failed to clear session for user %s: %s", userId, err.Error())
	}
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}
