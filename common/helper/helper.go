package helper

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenRequestID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func MessageWithRequestId(message string, id string) string {
	return fmt.Sprintf("%s (request id: %s)", message, id)
}

func GetTimestamp() int64 {
	return time.Now().Unix()
}

// GenOrderNo 生成订单号：时间戳 + 用户ID 尾部 + 随机数
func GenOrderNo(userId string) string {
	suffix := strings.ReplaceAll(userId, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("%d%s%04d", time.Now().UnixMilli(), suffix, rand.Intn(10000))
}
