// Package encoder 把用户提交的图片引用归一化成可以放进 JSON 的形式。
// 三类输入：data URI 原样透传，远程 http(s) URL 原样透传，
// studio 本地引用（/uploads/... 上传产物）读盘后编码为 data URI。
package encoder

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/image"
)

// LocalRefPrefix 上传接口返回的本地引用前缀
const LocalRefPrefix = "/uploads/"

// IsRemoteRef 远程 URL 不做任何再编码，也不发起网络请求
func IsRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// IsLocalRef 本地引用是上传接口产出的临时对象，等价于浏览器里的 blob: URL
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, LocalRefPrefix)
}

// localPath 把 /uploads/xxx 引用解析成上传目录下的文件路径，
// 只取文件名部分，拒绝目录穿越
func localPath(ref string) string {
	name := filepath.Base(strings.TrimPrefix(ref, LocalRefPrefix))
	return filepath.Join(config.UploadDir, name)
}

// EncodeImageRef 归一化单个图片引用。
// 本地引用读不到（已被清理、路径失效）时返回错误，由调用方整体中止构建。
func EncodeImageRef(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if image.IsDataURL(ref) || IsRemoteRef(ref) {
		return ref, nil
	}
	if IsLocalRef(ref) {
		encoded, err := image.EncodeFileToDataURL(localPath(ref))
		if err != nil {
			return "", errors.Wrapf(err, "failed to encode local image %s", ref)
		}
		return encoded, nil
	}
	return "", errors.Errorf("unrecognized image reference: %s", ref)
}

// EncodeImageRefs 逐个归一化，保持输入顺序，任意一个失败整体失败
func EncodeImageRefs(refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	encoded := make([]string, 0, len(refs))
	for _, ref := range refs {
		e, err := EncodeImageRef(ref)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, e)
	}
	return encoded, nil
}
