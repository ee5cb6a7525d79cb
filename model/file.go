package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// File 上传的参考图记录。StoreUrl 是 /uploads/ 下的本地引用，
// 配了 R2 镜像时 MirrorUrl 存公网地址。
type File struct {
	Id          int64  `json:"id"`
	UserId      string `json:"user_id" gorm:"type:varchar(64);index"`
	CreatedTime int64  `json:"created_time" gorm:"bigint"`
	Bytes       int64  `json:"bytes"`
	StoreUrl    string `json:"store_url"`
	MirrorUrl   string `json:"mirror_url"`
	MimeType    string `json:"mime_type" gorm:"type:varchar(64)"`
	FileName    string `json:"file_name" gorm:"type:varchar(255);index"`
}

func SumBytesByUserId(userId string) (int64, error) {
	if userId == "" {
		return 0, errors.New("userId is empty")
	}

	var totalBytes int64
	err := DB.Model(&File{}).Where("user_id = ?", userId).Select("COALESCE(SUM(bytes), 0)").Scan(&totalBytes).Error
	if err != nil {
		return 0, err
	}

	return totalBytes, nil
}

func GetFileByFilename(filename string) (*File, error) {
	var file File
	err := DB.Where("file_name = ?", filename).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("file with filename '%s' not found", filename)
		}
		return nil, err
	}
	return &file, nil
}

func DeleteFileByFilename(filename string) error {
	file, err := GetFileByFilename(filename)
	if err != nil {
		return err
	}
	return file.Delete()
}

func UpdateFileMirrorUrl(filename string, mirrorUrl string) error {
	return DB.Model(&File{}).Where("file_name = ?", filename).Update("mirror_url", mirrorUrl).Error
}

func (file *File) Insert() error {
	return DB.Create(file).Error
}

func (file *File) Delete() error {
	return DB.Delete(file).Error
}
