package controller

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/cloudflare"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/image"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/generation/assets"
	"github.com/seevideo/see-video-studio/model"
)

// GetVideoList 拉取资产列表，把本地缓存路径并进去，再按日期分桶。
// 列表是唯一的事实来源，状态变化靠前端重新拉取。
func GetVideoList(c *gin.Context) {
	token := c.GetString("token")
	userId := c.GetString("id")

	list, err := upstreamClient.ListAssets(c.Request.Context(), token)
	if err != nil {
		// 客户端取消（页面切走、查询被新请求顶掉）按空操作处理
		if errors.Is(err, context.Canceled) || c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	cacheMap, err := model.GetAssetCacheMap(userId)
	if err != nil {
		logger.Errorf(c.Request.Context(), "failed to load asset cache: %s", err.Error())
		cacheMap = map[string]*model.AssetCache{}
	}
	mergeAssetCache(list, cacheMap)

	if config.CfR2MirrorEnabled {
		snapshot := make([]assets.Asset, len(list))
		copy(snapshot, list)
		common.SafeGoroutine(func() {
			mirrorAssetCovers(userId, snapshot, cacheMap)
		})
	}

	now := time.Now()
	projections := make([]assets.Projection, len(list))
	for i := range list {
		projections[i] = assets.Project(&list[i], now)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"asset_list":  list,
			"projections": projections,
			"groups":      assets.GroupByDate(list, now),
		},
	})
}

// mergeAssetCache 把缓存记录并进列表，上游没给本地路径时才补。
// 封面没有本地副本就退回 R2 镜像地址，保证镜像过的封面能被用上。
func mergeAssetCache(list []assets.Asset, cacheMap map[string]*model.AssetCache) {
	for i := range list {
		entry, ok := cacheMap[list[i].Id]
		if !ok {
			continue
		}
		if list[i].CoverLocalPath == "" {
			list[i].CoverLocalPath = entry.CoverLocalPath
		}
		if list[i].CoverLocalPath == "" {
			list[i].CoverLocalPath = entry.CoverMirrorUrl
		}
		if list[i].VideoLocalPath == "" {
			list[i].VideoLocalPath = entry.VideoLocalPath
		}
	}
}

// mirrorAssetCovers 把还没镜像过的封面搬到 R2，失败只记日志。
// 在后台协程里跑，不影响列表响应。
func mirrorAssetCovers(userId string, list []assets.Asset, cacheMap map[string]*model.AssetCache) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	for i := range list {
		a := &list[i]
		if a.CoverUrl == "" {
			continue
		}
		if entry, ok := cacheMap[a.Id]; ok && entry.CoverMirrorUrl != "" {
			continue
		}
		mimeType, encoded, err := image.GetImageFromUrl(a.CoverUrl)
		if err != nil {
			logger.SysError(fmt.Sprintf("failed to fetch cover for asset %s: %s", a.Id, err.Error()))
			continue
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			logger.SysError(fmt.Sprintf("failed to decode cover for asset %s: %s", a.Id, err.Error()))
			continue
		}
		mirrorUrl, err := cloudflare.MirrorAsset(ctx, a.Id, data, mimeType)
		if err != nil {
			logger.SysError(fmt.Sprintf("failed to mirror cover for asset %s: %s", a.Id, err.Error()))
			continue
		}
		err = model.UpsertAssetCache(&model.AssetCache{
			AssetId:        a.Id,
			UserId:         userId,
			CoverMirrorUrl: mirrorUrl,
		})
		if err != nil {
			logger.SysError(fmt.Sprintf("failed to record mirror for asset %s: %s", a.Id, err.Error()))
		}
	}
}
