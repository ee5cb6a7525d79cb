package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seevideo/see-video-studio/common/config"
)

func newPaymentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/payment/create", func(c *gin.Context) {
		c.Set("id", "u1")
		CreatePayment(c)
	})
	return router
}

func postPayment(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePaymentValidatesPlanPair(t *testing.T) {
	enabled := config.StripePaymentEnabled
	config.StripePaymentEnabled = true
	defer func() { config.StripePaymentEnabled = enabled }()
	router := newPaymentRouter()

	// 金额积分对不上任何档位
	w := postPayment(t, router, `{"amount": 30, "credits": 9999}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "recharge plan not found")

	// 缺字段直接被绑定拦下
	w = postPayment(t, router, `{"amount": 10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCreatePaymentDisabled(t *testing.T) {
	enabled := config.StripePaymentEnabled
	config.StripePaymentEnabled = false
	defer func() { config.StripePaymentEnabled = enabled }()
	router := newPaymentRouter()

	w := postPayment(t, router, `{"amount": 10, "credits": 1050}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "payment is not enabled")
}
