package upstream

import (
	"encoding/json"
)

// ApiResponse 上游统一响应壳：非 2xx 和 success=false 同等对待，
// 错误文案先读 message 再读 error
type ApiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (r *ApiResponse) ErrorMessage() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// GenerateResult 提交成功后的关联标识，用于跳转到列表页
type GenerateResult struct {
	ProjectId string `json:"projectId"`
}

type assetListData struct {
	AssetList json.RawMessage `json:"asset_list"`
}

type creditsData struct {
	Credits int64 `json:"credits"`
}

// Error 上游业务错误，消息保持原文，分类交给调用方
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}
