// Package builder 把当前表单状态组装成可提交的生成请求。
// 分成三段，各自的失败契约不同：
//   - Correct：纯函数，永不失败，总是返回合法组合（编辑期间持续调用）
//   - Validate：提交前的存在性校验，带原因失败
//   - Build：假定输入已纠正，只做校验 + 编码 + 组装
package builder

import (
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/seevideo/see-video-studio/generation/domain"
	"github.com/seevideo/see-video-studio/generation/encoder"
)

var (
	ErrEmptyPrompt           = errors.New("prompt is empty")
	ErrMissingStartFrame     = errors.New("start frame is required in start/end frame mode")
	ErrMissingReferenceImage = errors.New("at least one reference image is required in omni mode")
)

// FormState 表单状态，由单一控制器持有，可序列化
type FormState struct {
	CreationType string   `json:"creationType"`
	Model        string   `json:"model"`
	FrameMode    string   `json:"frameMode"`
	Ratio        string   `json:"ratio"`
	Duration     string   `json:"duration"`
	Prompt       string   `json:"prompt"`
	StartFrame   string   `json:"startFrame,omitempty"`
	EndFrame     string   `json:"endFrame,omitempty"`
	OmniFrames   []string `json:"omniFrames,omitempty"`
}

// Request 提交给上游的生成请求，发出后不再修改
type Request struct {
	CreationType string   `json:"creationType"`
	Model        string   `json:"model"`
	FrameMode    string   `json:"frameMode"`
	Ratio        string   `json:"ratio"`
	Duration     string   `json:"duration"`
	Prompt       string   `json:"prompt"`
	StartFrame   string   `json:"startFrame,omitempty"`
	EndFrame     string   `json:"endFrame,omitempty"`
	OmniFrames   []string `json:"omniFrames,omitempty"`
}

// Correct 对表单应用域表纠正，总是返回合法组合。
// 编辑期间每次相关字段变化都会走一遍，所以必须幂等。
func Correct(form FormState) FormState {
	if form.CreationType == "" {
		form.CreationType = domain.CreationTypeVideo
	}
	if len(form.OmniFrames) > domain.MaxOmniFrames {
		form.OmniFrames = form.OmniFrames[:domain.MaxOmniFrames]
	}
	hasTwo := domain.IsTwoReferenceImages(form.FrameMode, form.StartFrame, form.EndFrame)
	form.Model = domain.CorrectModel(form.FrameMode, hasTwo, form.Model)
	form.Duration = domain.CorrectDuration(form.Model, form.Duration)
	return form
}

// Validate 按固定顺序做存在性校验，第一个失败即返回。
// 模型/时长/画幅的合法性不在这里复查，那是 Correct 的职责。
func Validate(form FormState) error {
	if strings.TrimSpace(form.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if form.FrameMode == domain.FrameModeStartEnd && form.StartFrame == "" {
		return ErrMissingStartFrame
	}
	if form.FrameMode == domain.FrameModeOmni && len(form.OmniFrames) == 0 {
		return ErrMissingReferenceImage
	}
	return nil
}

// Build 校验、编码并组装请求。任何一张图编码失败都会整体失败，
// 不会产生半成品请求。
func Build(form FormState) (*Request, error) {
	if err := Validate(form); err != nil {
		return nil, err
	}

	startFrame, err := encoder.EncodeImageRef(form.StartFrame)
	if err != nil {
		return nil, err
	}
	endFrame, err := encoder.EncodeImageRef(form.EndFrame)
	if err != nil {
		return nil, err
	}
	var omniFrames []string
	if form.FrameMode == domain.FrameModeOmni {
		omniFrames, err = encoder.EncodeImageRefs(form.OmniFrames)
		if err != nil {
			return nil, err
		}
	}

	var req Request
	if err := copier.Copy(&req, &form); err != nil {
		return nil, errors.Wrap(err, "failed to assemble generation request")
	}
	req.Prompt = strings.TrimSpace(form.Prompt)
	req.StartFrame = startFrame
	req.EndFrame = endFrame
	req.OmniFrames = omniFrames
	return &req, nil
}
