// Package submit 驱动生成任务的提交流程：校验、编码、恰好一次的上游
// 调用，以及结果分类。同一个表单同时只允许一次提交在途。
package submit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/generation/builder"
	"github.com/seevideo/see-video-studio/upstream"
)

// State 单次提交所处的阶段，空闲时不保留记录
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateEncoding   State = "encoding"
	StateSubmitting State = "submitting"
)

// Status 提交的终态
type Status string

const (
	StatusSuccess             Status = "success"
	StatusInsufficientCredits Status = "insufficient_credits"
	StatusFailed              Status = "failed"
)

// Stage 失败发生的阶段。validation 阶段的失败文案可以原样给用户，
// encoding 阶段只给通用文案，细节进日志。
type Stage string

const (
	StageValidation Stage = "validation"
	StageEncoding   Stage = "encoding"
	StageSubmit     Stage = "submit"
)

// Outcome 一次提交的结果。ShowRecharge 为 true 时前端应弹出充值引导
// 而不是普通错误提示。
type Outcome struct {
	Status       Status `json:"status"`
	Stage        Stage  `json:"stage,omitempty"`
	Message      string `json:"message,omitempty"`
	ProjectId    string `json:"projectId,omitempty"`
	ShowRecharge bool   `json:"showRecharge,omitempty"`
}

var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// CreditsRefresher 提交后触发余额刷新用，同步实现即可，
// 控制器自己负责扔进后台协程。
type CreditsRefresher interface {
	RefreshNow(token string)
}

// Controller 提交控制器。states 以调用方给的 key（通常是用户 id）
// 记录在途提交，整个流程结束后清除。
type Controller struct {
	client    *upstream.Client
	refresher CreditsRefresher

	mu     sync.Mutex
	states map[string]State
}

func NewController(client *upstream.Client, refresher CreditsRefresher) *Controller {
	return &Controller{
		client:    client,
		refresher: refresher,
		states:    make(map[string]State),
	}
}

// StateOf 返回 key 对应的当前阶段，没有在途提交返回 StateIdle
func (sc *Controller) StateOf(key string) State {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if state, ok := sc.states[key]; ok {
		return state
	}
	return StateIdle
}

// Submit 执行一次完整的提交。非空闲状态下重复调用返回
// ErrSubmissionInFlight，不产生任何副作用。校验或编码失败不会发起
// 网络调用；上游只会被调用一次，失败不重试。
func (sc *Controller) Submit(ctx context.Context, key string, token string, form builder.FormState) (*Outcome, error) {
	if !sc.begin(key) {
		return nil, ErrSubmissionInFlight
	}
	defer sc.finish(key)

	if err := builder.Validate(form); err != nil {
		return &Outcome{
			Status:  StatusFailed,
			Stage:   StageValidation,
			Message: err.Error(),
		}, nil
	}

	sc.setState(key, StateEncoding)
	req, err := builder.Build(form)
	if err != nil {
		logger.Errorf(ctx, "failed to encode reference images: %s", err.Error())
		return &Outcome{
			Status:  StatusFailed,
			Stage:   StageEncoding,
			Message: "failed to process reference images, please try again",
		}, nil
	}

	sc.setState(key, StateSubmitting)
	result, err := sc.client.Generate(ctx, token, req)
	if err != nil {
		return sc.classifyFailure(ctx, token, err), nil
	}

	logger.Infof(ctx, "generation task submitted, project %s", result.ProjectId)
	sc.refreshCredits(token)
	return &Outcome{
		Status:    StatusSuccess,
		ProjectId: result.ProjectId,
		Message:   "generation task submitted",
	}, nil
}

// classifyFailure 把上游错误归类成积分不足或普通失败。积分不足也算
// 一次有效的余额变动信号，同样触发刷新。
func (sc *Controller) classifyFailure(ctx context.Context, token string, err error) *Outcome {
	var upstreamErr *upstream.Error
	if errors.As(err, &upstreamErr) && IsInsufficientCreditsError(upstreamErr.Message) {
		logger.Warn(ctx, fmt.Sprintf("generation rejected, insufficient credits: %s", upstreamErr.Message))
		sc.refreshCredits(token)
		return &Outcome{
			Status:       StatusInsufficientCredits,
			Stage:        StageSubmit,
			Message:      upstreamErr.Message,
			ShowRecharge: true,
		}
	}

	logger.Errorf(ctx, "generation submit failed: %s", err.Error())
	message := "generation failed, please try again later"
	if upstreamErr != nil && upstreamErr.Message != "" {
		message = upstreamErr.Message
	}
	return &Outcome{
		Status:  StatusFailed,
		Stage:   StageSubmit,
		Message: message,
	}
}

func (sc *Controller) refreshCredits(token string) {
	if sc.refresher == nil {
		return
	}
	refresher := sc.refresher
	common.SafeGoroutine(func() {
		refresher.RefreshNow(token)
	})
}

func (sc *Controller) begin(key string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if state, ok := sc.states[key]; ok && state != StateIdle {
		return false
	}
	sc.states[key] = StateValidating
	return true
}

func (sc *Controller) setState(key string, state State) {
	sc.mu.Lock()
	sc.states[key] = state
	sc.mu.Unlock()
}

func (sc *Controller) finish(key string) {
	sc.mu.Lock()
	delete(sc.states, key)
	sc.mu.Unlock()
}
