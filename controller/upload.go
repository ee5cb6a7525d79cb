package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/cloudflare"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/helper"
	"github.com/seevideo/see-video-studio/common/image"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/generation/encoder"
	"github.com/seevideo/see-video-studio/model"
)

// Upload 接收参考图，落到本地上传目录并返回 /uploads/ 引用。
// 提交生成请求时编码器会按这个引用读回文件。
func Upload(c *gin.Context) {
	userId := c.GetString("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "no file uploaded",
		})
		return
	}
	if fileHeader.Size > config.UploadMaxBytes {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": fmt.Sprintf("file too large, limit is %d bytes", config.UploadMaxBytes),
		})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "only image uploads are supported",
		})
		return
	}
	// 顺带确认图片能被解码，坏图在这里拦下来，别等到提交时才失败
	width, height, err := image.GetImageSize(image.BuildDataURL(data))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "unsupported or corrupted image",
		})
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	filename := helper.GenRequestID() + ext
	if err = os.WriteFile(filepath.Join(config.UploadDir, filename), data, 0644); err != nil {
		logger.Errorf(c.Request.Context(), "failed to store upload: %s", err.Error())
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "failed to store file",
		})
		return
	}

	storeUrl := encoder.LocalRefPrefix + filename
	record := &model.File{
		UserId:      userId,
		CreatedTime: helper.GetTimestamp(),
		Bytes:       int64(len(data)),
		StoreUrl:    storeUrl,
		MimeType:    mimeType,
		FileName:    filename,
	}
	if err = record.Insert(); err != nil {
		logger.Errorf(c.Request.Context(), "failed to record upload: %s", err.Error())
	}

	if config.CfR2MirrorEnabled {
		common.SafeGoroutine(func() {
			mirrorUpload(filename, data, mimeType)
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"url":       storeUrl,
			"file_name": filename,
			"bytes":     len(data),
			"width":     width,
			"height":    height,
		},
	})
}

func mirrorUpload(filename string, data []byte, mimeType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	mirrorUrl, err := cloudflare.MirrorAsset(ctx, "upload-"+filename, data, mimeType)
	if err != nil {
		logger.SysError("failed to mirror upload " + filename + ": " + err.Error())
		return
	}
	if err = model.UpdateFileMirrorUrl(filename, mirrorUrl); err != nil {
		logger.SysError("failed to record upload mirror " + filename + ": " + err.Error())
	}
}
