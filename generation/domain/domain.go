// Package domain 是生成参数合法组合的唯一来源：模型 × 帧模式 × 时长 × 画幅
// 的约束都定义在这里，纠正函数只会返回合法值，从不拒绝。
package domain

// CreationType 创作类型
const (
	CreationTypeAgent = "agent"
	CreationTypeImage = "image"
	CreationTypeVideo = "video"
)

// Model 可选的生成模型
const (
	ModelSeedance20     = "seedance20"
	ModelSeedance20Fast = "seedance20fast"
	Model35Pro          = "35pro"
	Model30Pro          = "30pro"
	Model30Fast         = "30fast"
	Model30             = "30"
)

// FrameMode 参考图策略
const (
	FrameModeOmni     = "omni"     // 1-5 张参考图，无首尾帧之分
	FrameModeStartEnd = "startEnd" // 首帧必填，尾帧可选
	FrameModeMulti    = "multi"    // 预留，当前 UI 不可达
	FrameModeSubject  = "subject"  // 预留，当前 UI 不可达
)

// Ratio 画幅
const (
	RatioAuto = "auto-size"
	Ratio21x9 = "21:9"
	Ratio16x9 = "16:9"
	Ratio4x3  = "4:3"
	Ratio1x1  = "1:1"
	Ratio3x4  = "3:4"
	Ratio9x16 = "9:16"
)

var Models = []string{
	ModelSeedance20,
	ModelSeedance20Fast,
	Model35Pro,
	Model30Pro,
	Model30Fast,
	Model30,
}

var FrameModes = []string{
	FrameModeOmni,
	FrameModeStartEnd,
	FrameModeMulti,
	FrameModeSubject,
}

var Ratios = []string{
	RatioAuto,
	Ratio21x9,
	Ratio16x9,
	Ratio4x3,
	Ratio1x1,
	Ratio3x4,
	Ratio9x16,
}

// MaxOmniFrames omni 模式最多允许的参考图数量
const MaxOmniFrames = 5

// DefaultDuration 时长不合法时回落到的值
const DefaultDuration = "5"

// extendedDurationModels 支持 4-15 秒任意时长的模型，其余模型只有 5/10 秒两档
var extendedDurationModels = map[string]bool{
	ModelSeedance20:     true,
	ModelSeedance20Fast: true,
}

// omniCapableModels omni 模式仅这些模型可用
var omniCapableModels = map[string]bool{
	ModelSeedance20:     true,
	ModelSeedance20Fast: true,
}

// twoImageExcludedModels 双参考图（首帧+尾帧）不支持的模型
var twoImageExcludedModels = map[string]bool{
	Model30Pro:  true,
	Model30Fast: true,
}

func IsValidModel(model string) bool {
	for _, m := range Models {
		if m == model {
			return true
		}
	}
	return false
}

func IsValidFrameMode(frameMode string) bool {
	for _, m := range FrameModes {
		if m == frameMode {
			return true
		}
	}
	return false
}

func IsValidRatio(ratio string) bool {
	for _, r := range Ratios {
		if r == ratio {
			return true
		}
	}
	return false
}

// IsTwoReferenceImages 判断当前选择是否构成双参考图提交：
// 仅在首尾帧模式下、且两张图都已设置时为真
func IsTwoReferenceImages(frameMode string, startFrame string, endFrame string) bool {
	return frameMode == FrameModeStartEnd && startFrame != "" && endFrame != ""
}

// AllowedDurations 返回模型允许的时长档位（字符串秒数，升序）
func AllowedDurations(model string) []string {
	if extendedDurationModels[model] {
		return []string{"4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15"}
	}
	return []string{"5", "10"}
}

func IsAllowedDuration(model string, duration string) bool {
	for _, d := range AllowedDurations(model) {
		if d == duration {
			return true
		}
	}
	return false
}

// CorrectModel 把当前模型纠正为与帧模式/参考图数量兼容的模型。
// 合法时保留用户选择；幂等；永不返回非法值。
func CorrectModel(frameMode string, hasTwoImages bool, model string) string {
	if frameMode == FrameModeOmni && !omniCapableModels[model] {
		return ModelSeedance20
	}
	if hasTwoImages && twoImageExcludedModels[model] {
		return ModelSeedance20
	}
	return model
}

// CorrectDuration 时长不在模型允许档位里时回落到默认值，合法则原样保留
func CorrectDuration(model string, duration string) string {
	if IsAllowedDuration(model, duration) {
		return duration
	}
	return DefaultDuration
}
