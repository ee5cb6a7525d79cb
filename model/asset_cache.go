package model

import (
	"errors"

	"github.com/seevideo/see-video-studio/common/helper"
	"gorm.io/gorm"
)

// AssetCache 资产的本地缓存路径记录。上游列表接口不维护这些字段，
// 镜像落盘后记在这里，列表响应时并进去，让前端优先走本地副本。
type AssetCache struct {
	Id             int64  `json:"id"`
	AssetId        string `json:"asset_id" gorm:"type:varchar(100);uniqueIndex"`
	UserId         string `json:"user_id" gorm:"type:varchar(64);index"`
	CoverLocalPath string `json:"cover_local_path"`
	VideoLocalPath string `json:"video_local_path"`
	CoverMirrorUrl string `json:"cover_mirror_url"`
	CreatedTime    int64  `json:"created_time" gorm:"bigint"`
	UpdatedTime    int64  `json:"updated_time" gorm:"bigint"`
}

// UpsertAssetCache 只覆盖非空字段，已有的本地路径不会被空值抹掉
func UpsertAssetCache(entry *AssetCache) error {
	if entry.AssetId == "" {
		return errors.New("assetId is empty")
	}
	var existing AssetCache
	err := DB.Where("asset_id = ?", entry.AssetId).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry.CreatedTime = helper.GetTimestamp()
			entry.UpdatedTime = entry.CreatedTime
			return DB.Create(entry).Error
		}
		return err
	}
	if entry.CoverLocalPath != "" {
		existing.CoverLocalPath = entry.CoverLocalPath
	}
	if entry.VideoLocalPath != "" {
		existing.VideoLocalPath = entry.VideoLocalPath
	}
	if entry.CoverMirrorUrl != "" {
		existing.CoverMirrorUrl = entry.CoverMirrorUrl
	}
	existing.UpdatedTime = helper.GetTimestamp()
	return DB.Save(&existing).Error
}

// GetAssetCacheMap 拉某个用户的全部缓存记录，按 asset id 建索引
func GetAssetCacheMap(userId string) (map[string]*AssetCache, error) {
	if userId == "" {
		return nil, errors.New("userId is empty")
	}
	var entries []*AssetCache
	err := DB.Where("user_id = ?", userId).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]*AssetCache, len(entries))
	for _, entry := range entries {
		result[entry.AssetId] = entry
	}
	return result, nil
}
