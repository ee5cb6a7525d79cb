package config

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seevideo/see-video-studio/common/env"
)

var SystemName = "See Video Studio"
var ServerAddress = env.String("SERVER_ADDRESS", "http://localhost:3000")
var ServiceName = env.String("SERVICE_NAME", "see-video-studio")
var InstanceId = uuid.New().String()[:8]

// 上游生成服务（see-video-server），所有生成/列表/积分请求都转发到这里
var UpstreamBaseURL = env.String("UPSTREAM_BASE_URL", "http://localhost:8787")
var UpstreamProxy = env.String("UPSTREAM_PROXY", "")
var UpstreamTimeout = env.Int("UPSTREAM_TIMEOUT", 120) // unit is second

// Any options with "Secret", "Token" in its key won't be logged
var SessionSecret = uuid.New().String()

var DebugEnabled = strings.ToLower(os.Getenv("DEBUG")) == "true"
var DebugSQLEnabled = strings.ToLower(os.Getenv("DEBUG_SQL")) == "true"
var MemoryCacheEnabled = strings.ToLower(os.Getenv("MEMORY_CACHE_ENABLED")) == "true"

// 外部认证服务：本地校验 JWT（配了 AUTH_JWT_SECRET）优先，否则回源 /api/auth/me
var AuthBaseURL = env.String("AUTH_BASE_URL", UpstreamBaseURL)
var AuthJwtSecret = env.String("AUTH_JWT_SECRET", "")
var AuthCacheSeconds = env.Int("AUTH_CACHE_SECONDS", 10*60)

var StripePaymentEnabled = env.Bool("STRIPE_PAYMENT_ENABLED", false)
var StripePrivateKey = env.String("STRIPE_PRIVATE_KEY", "")
var StripeEndpointSecret = env.String("STRIPE_ENDPOINT_SECRET", "")
var PaymentCurrency = env.String("PAYMENT_CURRENCY", "cny")

// Cloudflare R2 镜像存储（可选），保留已生成资产封面的本地副本
var CfR2MirrorEnabled = env.Bool("CF_R2_MIRROR_ENABLED", false)
var CfBucketName = env.String("CF_BUCKET_NAME", "")
var CfAccessKey = env.String("CF_ACCESS_KEY", "")
var CfSecretKey = env.String("CF_SECRET_KEY", "")
var CfEndpoint = env.String("CF_ENDPOINT", "")
var CfPublicBaseURL = env.String("CF_PUBLIC_BASE_URL", "")

var UploadDir = env.String("UPLOAD_DIR", "./uploads")
var UploadMaxBytes = int64(env.Int("UPLOAD_MAX_BYTES", 10*1024*1024))

var CreditsRefreshInterval = env.Int("CREDITS_REFRESH_INTERVAL", 30) // unit is second
var CreditsCacheSeconds = env.Int("CREDITS_CACHE_SECONDS", 25)

var FrontendBaseURL = env.String("FRONTEND_BASE_URL", "")

// All duration's unit is seconds
// Shouldn't larger then RateLimitKeyExpirationDuration
var (
	GlobalApiRateLimitNum            = env.Int("GLOBAL_API_RATE_LIMIT", 180000)
	GlobalApiRateLimitDuration int64 = 30 * 60

	UploadRateLimitNum            = 10
	UploadRateLimitDuration int64 = 600

	CriticalRateLimitNum            = 200
	CriticalRateLimitDuration int64 = 200 * 60
)

var RateLimitKeyExpirationDuration = 20 * time.Minute
