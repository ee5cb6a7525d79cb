package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/generation/builder"
	"github.com/seevideo/see-video-studio/generation/submit"
)

// GenerateRequest 前端生成请求。枚举在绑定层先粗筛一遍，
// 模型/时长的组合约束交给纠正逻辑，绑定层不重复。
type GenerateRequest struct {
	CreationType string   `json:"creationType" binding:"omitempty,oneof=agent image video"`
	Model        string   `json:"model" binding:"omitempty,oneof=seedance20 seedance20fast 35pro 30pro 30fast 30"`
	FrameMode    string   `json:"frameMode" binding:"omitempty,oneof=omni startEnd multi subject"`
	Ratio        string   `json:"ratio" binding:"omitempty,oneof=auto-size 21:9 16:9 4:3 1:1 3:4 9:16"`
	Duration     string   `json:"duration"`
	Prompt       string   `json:"prompt"`
	StartFrame   string   `json:"startFrame"`
	EndFrame     string   `json:"endFrame"`
	OmniFrames   []string `json:"omniFrames"`
}

func Generate(c *gin.Context) {
	var req GenerateRequest
	if err := common.UnmarshalBodyReusable(c, &req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "invalid request: " + err.Error(),
		})
		return
	}

	var form builder.FormState
	if err := copier.Copy(&form, &req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	// 不合法的组合在这里被拉回合法值，和编辑器里的持续纠正同一套规则
	form = builder.Correct(form)

	userId := c.GetString("id")
	token := c.GetString("token")
	outcome, err := submitCtl.Submit(c.Request.Context(), userId, token, form)
	if err != nil {
		if errors.Is(err, submit.ErrSubmissionInFlight) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "a generation task is already being submitted, please wait",
			})
			return
		}
		logger.Errorf(c.Request.Context(), "submit failed: %s", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	if outcome.Status != submit.StatusSuccess {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": outcome.Message,
			"data": gin.H{
				"status":       outcome.Status,
				"showRecharge": outcome.ShowRecharge,
			},
		})
		return
	}

	// 提交成功后让余额监控盯上这个用户
	creditsMon.Watch(userId, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": outcome.Message,
		"data": gin.H{
			"status":    outcome.Status,
			"projectId": outcome.ProjectId,
		},
	})
}
