package middleware

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/service"
)

// Profile 认证服务返回的用户身份，后续 handler 通过 gin context 取用
type Profile struct {
	Id    string `json:"id"`
	Email string `json:"email"`
}

type authClaims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

type cachedProfile struct {
	profile   Profile
	expiresAt time.Time
}

var (
	authCacheLock sync.Mutex
	authCache     = make(map[string]cachedProfile)
)

// UserAuth 校验 Bearer token，通过后把 id/email/token 放进 context。
// token 同时会原样透传给上游，所以失败要尽早拦截。
func UserAuth() func(c *gin.Context) {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized for this operation, no access token provided")
			return
		}
		profile, err := validateToken(c, token)
		if err != nil {
			logger.Debugf(c.Request.Context(), "token validation failed: %s", err.Error())
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized to perform this operation, access token is invalid")
			return
		}
		c.Set("id", profile.Id)
		c.Set("email", profile.Email)
		c.Set("token", token)
		c.Next()
	}
}

// validateToken 配了 AUTH_JWT_SECRET 就本地验签，省一次回源；
// 否则回源认证服务并缓存结果。
func validateToken(c *gin.Context, token string) (*Profile, error) {
	if config.AuthJwtSecret != "" {
		return validateLocal(token)
	}
	return validateRemote(c, token)
}

func validateLocal(token string) (*Profile, error) {
	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.AuthJwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return &Profile{Id: claims.Subject, Email: claims.Email}, nil
}

func validateRemote(c *gin.Context, token string) (*Profile, error) {
	cacheKey := fmt.Sprintf("auth_token:%x", sha256.Sum256([]byte(token)))

	if profile, ok := cacheGetProfile(cacheKey); ok {
		return profile, nil
	}

	profile, err := fetchProfile(c, token)
	if err != nil {
		return nil, err
	}
	cacheSetProfile(cacheKey, profile)
	return profile, nil
}

func fetchProfile(c *gin.Context, token string) (*Profile, error) {
	client, err := service.GetUpstreamClient()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, config.AuthBaseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("auth service returned %d", resp.StatusCode)
	}

	var apiResp struct {
		Success bool    `json:"success"`
		Data    Profile `json:"data"`
		Message string  `json:"message"`
	}
	if err = json.Unmarshal(body, &apiResp); err != nil {
		return nil, errors.Wrap(err, "decode auth response failed")
	}
	if !apiResp.Success || apiResp.Data.Id == "" {
		return nil, errors.Errorf("auth rejected: %s", apiResp.Message)
	}
	return &apiResp.Data, nil
}

func cacheGetProfile(key string) (*Profile, bool) {
	if common.RedisEnabled {
		value, err := common.RedisGet(key)
		if err != nil {
			return nil, false
		}
		var profile Profile
		if err = json.Unmarshal([]byte(value), &profile); err != nil {
			return nil, false
		}
		return &profile, true
	}

	authCacheLock.Lock()
	defer authCacheLock.Unlock()
	cached, ok := authCache[key]
	if !ok || time.Now().After(cached.expiresAt) {
		delete(authCache, key)
		return nil, false
	}
	profile := cached.profile
	return &profile, true
}

func cacheSetProfile(key string, profile *Profile) {
	ttl := time.Duration(config.AuthCacheSeconds) * time.Second
	if common.RedisEnabled {
		value, err := json.Marshal(profile)
		if err != nil {
			return
		}
		if err = common.RedisSet(key, string(value), ttl); err != nil {
			logger.SysError("failed to cache auth profile: " + err.Error())
		}
		return
	}

	authCacheLock.Lock()
	defer authCacheLock.Unlock()
	// 顺手清掉过期项，量不大，不值得单独起清理协程
	now := time.Now()
	for k, v := range authCache {
		if now.After(v.expiresAt) {
			delete(authCache, k)
		}
	}
	authCache[key] = cachedProfile{profile: *profile, expiresAt: now.Add(ttl)}
}
