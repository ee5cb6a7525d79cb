package model

import (
	"errors"

	"github.com/seevideo/see-video-studio/common/helper"
	"gorm.io/gorm"
)

// Session 用户级键值偏好（语言等），登录后回灌给前端，登出时清空。
// 每个用户每个 key 一条记录。
type Session struct {
	Id          int    `json:"id"`
	UserId      string `json:"user_id" gorm:"type:varchar(64);uniqueIndex:idx_session_user_key"`
	// key 在 MySQL 里是保留字，列名避开
	Key         string `json:"key" gorm:"column:session_key;type:varchar(64);uniqueIndex:idx_session_user_key"`
	Value       string `json:"value" gorm:"type:text"`
	UpdatedTime int64  `json:"updated_time" gorm:"bigint"`
}

const (
	SessionKeyLanguage = "language"
)

func GetSessionValue(userId string, key string) (string, error) {
	if userId == "" {
		return "", errors.New("userId is empty")
	}
	var session Session
	err := DB.Where("user_id = ? AND session_key = ?", userId, key).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return session.Value, nil
}

func SetSessionValue(userId string, key string, value string) error {
	if userId == "" {
		return errors.New("userId is empty")
	}
	var session Session
	err := DB.Where("user_id = ? AND session_key = ?", userId, key).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DB.Create(&Session{
				UserId:      userId,
				Key:         key,
				Value:       value,
				UpdatedTime: helper.GetTimestamp(),
			}).Error
		}
		return err
	}
	session.Value = value
	session.UpdatedTime = helper.GetTimestamp()
	return DB.Save(&session).Error
}

// ClearSession 登出时调用，清掉该用户的全部键值
func ClearSession(userId string) error {
	if userId == "" {
		return errors.New("userId is empty")
	}
	return DB.Where("user_id = ?", userId).Delete(&Session{}).Error
}
