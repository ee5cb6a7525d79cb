package cloudflare

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	commonConfig "github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/logger"
)

// getExtensionFromMimeType 根据 MIME 类型获取文件扩展名
func getExtensionFromMimeType(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return ".jpg"
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	case strings.Contains(mimeType, "mp4"):
		return ".mp4"
	default:
		return ".jpg"
	}
}

func newClient(ctx context.Context) (*s3.Client, error) {
	accessKey := commonConfig.CfAccessKey
	secretKey := commonConfig.CfSecretKey
	endpoint := commonConfig.CfEndpoint
	if accessKey == "" || secretKey == "" || commonConfig.CfBucketName == "" || endpoint == "" {
		return nil, fmt.Errorf("R2 configuration is incomplete")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return client, nil
}

// MirrorAsset 把一份资产副本（封面或视频）上传到 R2，返回公开访问 URL
// 对象键：mirror/<assetId>/<timestamp>-<uuid>.<ext>
func MirrorAsset(ctx context.Context, assetId string, data []byte, mimeType string) (string, error) {
	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102-150405"),
		strings.ReplaceAll(uuid.New().String(), "-", "")[:12],
		getExtensionFromMimeType(mimeType))
	objectKey := path.Join("mirror", assetId, filename)

	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(commonConfig.CfBucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %v", err)
	}

	publicBase := strings.TrimSuffix(commonConfig.CfPublicBaseURL, "/")
	if publicBase == "" {
		publicBase = strings.TrimSuffix(commonConfig.CfEndpoint, "/") + "/" + commonConfig.CfBucketName
	}
	publicURL := publicBase + "/" + objectKey
	logger.SysLog(fmt.Sprintf("mirrored asset %s to %s", assetId, publicURL))
	return publicURL, nil
}
