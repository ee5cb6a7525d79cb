package submit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seevideo/see-video-studio/generation/builder"
	"github.com/seevideo/see-video-studio/generation/domain"
	"github.com/seevideo/see-video-studio/upstream"
)

type fakeRefresher struct {
	calls chan string
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{calls: make(chan string, 8)}
}

func (f *fakeRefresher) RefreshNow(token string) {
	f.calls <- token
}

func (f *fakeRefresher) waitCall(t *testing.T) string {
	t.Helper()
	select {
	case token := <-f.calls:
		return token
	case <-time.After(2 * time.Second):
		t.Fatal("余额刷新未被触发")
		return ""
	}
}

// newUpstream 起一个假上游，返回控制器依赖的客户端和请求计数
func newUpstream(t *testing.T, handler http.HandlerFunc) (*upstream.Client, *int32) {
	t.Helper()
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return upstream.NewClientWith(server.URL, server.Client()), &requests
}

func validForm() builder.FormState {
	return builder.FormState{
		CreationType: domain.CreationTypeVideo,
		Model:        domain.Model30,
		Ratio:        domain.RatioAuto,
		Duration:     "5",
		Prompt:       "a cat walking on the beach",
	}
}

func TestSubmitSuccess(t *testing.T) {
	var gotAuth string
	client, requests := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"projectId":"proj_123"}}`))
	})

	refresher := newFakeRefresher()
	sc := NewController(client, refresher)

	outcome, err := sc.Submit(context.Background(), "user-1", "token-abc", validForm())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, "proj_123", outcome.ProjectId)
	assert.False(t, outcome.ShowRecharge)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, int32(1), atomic.LoadInt32(requests))
	assert.Equal(t, "token-abc", refresher.waitCall(t))
}

func TestSubmitValidationFailureSkipsNetwork(t *testing.T) {
	client, requests := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"projectId":"never"}}`))
	})

	sc := NewController(client, nil)

	form := validForm()
	form.Prompt = "   "
	outcome, err := sc.Submit(context.Background(), "user-1", "token-abc", form)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, StageValidation, outcome.Stage)
	assert.Equal(t, builder.ErrEmptyPrompt.Error(), outcome.Message)
	// 校验失败绝不能打到上游
	assert.Equal(t, int32(0), atomic.LoadInt32(requests))
}

func TestSubmitInsufficientCredits(t *testing.T) {
	client, requests := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"success":false,"message":"Insufficient credits for this operation"}`))
	})

	refresher := newFakeRefresher()
	sc := NewController(client, refresher)

	outcome, err := sc.Submit(context.Background(), "user-1", "token-abc", validForm())
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientCredits, outcome.Status)
	assert.True(t, outcome.ShowRecharge)
	assert.Equal(t, "Insufficient credits for this operation", outcome.Message)
	// 不重试
	assert.Equal(t, int32(1), atomic.LoadInt32(requests))
	refresher.waitCall(t)
}

func TestSubmitUpstreamFailure(t *testing.T) {
	client, requests := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Network timeout"}`))
	})

	sc := NewController(client, nil)

	outcome, err := sc.Submit(context.Background(), "user-1", "token-abc", validForm())
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, StageSubmit, outcome.Stage)
	assert.False(t, outcome.ShowRecharge)
	assert.Equal(t, "Network timeout", outcome.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(requests))
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	client, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"projectId":"proj_slow"}}`))
	})

	sc := NewController(client, nil)

	done := make(chan *Outcome, 1)
	go func() {
		outcome, err := sc.Submit(context.Background(), "user-1", "token-abc", validForm())
		if err != nil {
			t.Error(err)
		}
		done <- outcome
	}()

	// 等第一次提交进入上游调用阶段
	deadline := time.Now().Add(2 * time.Second)
	for sc.StateOf("user-1") != StateSubmitting {
		if time.Now().After(deadline) {
			t.Fatal("first submission never reached submitting state")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, err := sc.Submit(context.Background(), "user-1", "token-abc", validForm())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	// 换个 key 不受影响
	assert.Equal(t, StateIdle, sc.StateOf("user-2"))

	close(release)
	outcome := <-done
	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, StateIdle, sc.StateOf("user-1"))
}
