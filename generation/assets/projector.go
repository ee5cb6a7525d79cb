// Package assets 把上游的资产记录投影成展示事实：派生状态、时长、
// 日期标签和分组。全部是无状态纯函数，资产永远不会在客户端侧变更。
package assets

import (
	"fmt"
	"strconv"
	"time"
)

// Status 渲染时派生的资产状态，不落库
type Status string

const (
	StatusGenerating Status = "generating"
	StatusQueued     Status = "queued"
	StatusCreating   Status = "creating"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

const UnknownDateLabel = "unknown"

// HasCover 封面存在即认为生成完成
func HasCover(a *Asset) bool {
	return a.CoverLocalPath != "" || a.CoverUrl != ""
}

// CoverURL 本地缓存路径优先于远程地址
func CoverURL(a *Asset) string {
	if a.CoverLocalPath != "" {
		return a.CoverLocalPath
	}
	return a.CoverUrl
}

func VideoURL(a *Asset) string {
	if a.VideoLocalPath != "" {
		return a.VideoLocalPath
	}
	return a.VideoUrl
}

// StatusOf 派生资产状态。错误信息最优先（终态），其次封面，
// 然后按排队位置区分 creating/queued，兜底是 generating。
func StatusOf(a *Asset) Status {
	if a.ErrorMessage != "" {
		return StatusFailed
	}
	if HasCover(a) {
		return StatusReady
	}
	if a.QueueInfo != nil {
		if a.QueueInfo.Pos == 0 {
			return StatusCreating
		}
		return StatusQueued
	}
	return StatusGenerating
}

// FormatDuration 把字符串秒数渲染成 MM:SS，解析失败或缺失时兜底 00:00
func FormatDuration(duration string) string {
	seconds, err := strconv.Atoi(duration)
	if err != nil || seconds < 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDate 按自然日比较生成日期标签：today / yesterday / "{month}/{day}"，
// 时间戳缺失时返回 unknown
func FormatDate(createdAtMs int64, now time.Time) string {
	if createdAtMs <= 0 {
		return UnknownDateLabel
	}
	created := time.UnixMilli(createdAtMs).In(now.Location())

	cy, cm, cd := created.Date()
	ny, nm, nd := now.Date()
	if cy == ny && cm == nm && cd == nd {
		return "today"
	}
	yesterday := now.AddDate(0, 0, -1)
	yy, ym, yd := yesterday.Date()
	if cy == yy && cm == ym && cd == yd {
		return "yesterday"
	}
	return fmt.Sprintf("%d/%d", int(cm), cd)
}

// Projection 单条资产的展示事实
type Projection struct {
	Status       Status `json:"status"`
	QueuePos     int    `json:"queue_pos,omitempty"`
	QueueTotal   int    `json:"queue_total,omitempty"`
	QueueWait    int    `json:"queue_wait,omitempty"`
	CoverURL     string `json:"cover_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	DurationText string `json:"duration_text"`
	DateLabel    string `json:"date_label"`
}

// Project 把一条资产记录映射成展示事实
func Project(a *Asset, now time.Time) Projection {
	p := Projection{
		Status:       StatusOf(a),
		CoverURL:     CoverURL(a),
		VideoURL:     VideoURL(a),
		DurationText: FormatDuration(a.Duration),
		DateLabel:    FormatDate(a.CreatedAt, now),
	}
	if p.Status == StatusQueued || p.Status == StatusCreating {
		p.QueuePos = a.QueueInfo.Pos
		p.QueueTotal = a.QueueInfo.Total
		p.QueueWait = a.QueueInfo.Wait
	}
	return p
}

// Group 同一个日期标签下的资产
type Group struct {
	Label  string  `json:"label"`
	Assets []Asset `json:"assets"`
}

// GroupByDate 按日期标签分桶，桶顺序跟随记录遍历时标签首次出现的顺序，
// 不做时间排序
func GroupByDate(list []Asset, now time.Time) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, a := range list {
		label := FormatDate(a.CreatedAt, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Assets = append(groups[i].Assets, a)
	}
	return groups
}
