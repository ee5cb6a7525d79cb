package assets

import (
	"encoding/json"
)

// Asset 上游返回的资产记录，客户端只读，状态变化靠重新拉取列表
type Asset struct {
	Id             string     `json:"id"`
	Prompt         string     `json:"prompt,omitempty"`
	Duration       string     `json:"duration,omitempty"`
	Model          string     `json:"model,omitempty"`
	Ratio          string     `json:"ratio,omitempty"`
	CreatedAt      int64      `json:"created_at,omitempty"` // epoch milliseconds
	UpdatedAt      int64      `json:"updated_at,omitempty"`
	CoverLocalPath string     `json:"cover_local_path,omitempty"`
	CoverUrl       string     `json:"cover_url,omitempty"`
	VideoLocalPath string     `json:"video_local_path,omitempty"`
	VideoUrl       string     `json:"video_url,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	QueueInfo      *QueueInfo `json:"queue_info,omitempty"`
}

// QueueInfo 排队信息。上游存在两套键名（英文和中文），都要接受；
// 缺失的数字字段按 0 处理。
type QueueInfo struct {
	Pos   int `json:"pos"`
	Total int `json:"total"`
	Wait  int `json:"wait"`
}

// queueInfoAliases 中文键名到标准键名的映射
var queueInfoAliases = map[string]string{
	"排队位置": "pos",
	"总任务数":  "total",
	"预计等待": "wait",
}

func (q *QueueInfo) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	get := func(key string) int {
		if v, ok := raw[key]; ok {
			if n, err := v.Int64(); err == nil {
				return int(n)
			}
		}
		for alias, canonical := range queueInfoAliases {
			if canonical != key {
				continue
			}
			if v, ok := raw[alias]; ok {
				if n, err := v.Int64(); err == nil {
					return int(n)
				}
			}
		}
		return 0
	}
	q.Pos = get("pos")
	q.Total = get("total")
	q.Wait = get("wait")
	return nil
}
