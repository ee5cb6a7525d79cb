package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seevideo/see-video-studio/generation/assets"
	"github.com/seevideo/see-video-studio/model"
)

func TestMergeAssetCache(t *testing.T) {
	list := []assets.Asset{
		{Id: "a1", CoverUrl: "https://cdn.example.com/a1.jpg"},
		{Id: "a2", CoverUrl: "https://cdn.example.com/a2.jpg"},
		{Id: "a3", CoverLocalPath: "/uploads/from-upstream.png"},
		{Id: "a4", CoverUrl: "https://cdn.example.com/a4.jpg"},
	}
	cacheMap := map[string]*model.AssetCache{
		// 只有镜像地址，没有本地路径
		"a1": {AssetId: "a1", CoverMirrorUrl: "https://r2.example.com/mirror/a1/cover.jpg"},
		// 本地路径优先于镜像地址
		"a2": {
			AssetId:        "a2",
			CoverLocalPath: "/uploads/a2-cover.png",
			CoverMirrorUrl: "https://r2.example.com/mirror/a2/cover.jpg",
			VideoLocalPath: "/uploads/a2-video.mp4",
		},
		// 上游已经带了路径，缓存不能覆盖
		"a3": {AssetId: "a3", CoverLocalPath: "/uploads/stale.png"},
	}

	mergeAssetCache(list, cacheMap)

	assert.Equal(t, "https://r2.example.com/mirror/a1/cover.jpg", list[0].CoverLocalPath)
	assert.Equal(t, "/uploads/a2-cover.png", list[1].CoverLocalPath)
	assert.Equal(t, "/uploads/a2-video.mp4", list[1].VideoLocalPath)
	assert.Equal(t, "/uploads/from-upstream.png", list[2].CoverLocalPath)
	// 没有缓存记录的资产保持原样
	assert.Equal(t, "", list[3].CoverLocalPath)
}
