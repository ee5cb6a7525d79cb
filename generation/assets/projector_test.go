package assets

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  Status
	}{
		{"无封面无错误", Asset{}, StatusGenerating},
		{"有封面", Asset{CoverUrl: "https://cdn.example.com/c.jpg"}, StatusReady},
		{"本地封面", Asset{CoverLocalPath: "/cache/c.jpg"}, StatusReady},
		{"排队中", Asset{QueueInfo: &QueueInfo{Pos: 3, Total: 5, Wait: 2}}, StatusQueued},
		{"队首生成中", Asset{QueueInfo: &QueueInfo{Pos: 0, Total: 5, Wait: 2}}, StatusCreating},
		{"失败", Asset{ErrorMessage: "generation failed"}, StatusFailed},
		// error_message 优先级最高，封面和队列信息同时在也算失败
		{"失败优先于封面", Asset{
			ErrorMessage: "boom",
			CoverUrl:     "https://cdn.example.com/c.jpg",
			QueueInfo:    &QueueInfo{Pos: 1},
		}, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(&tt.asset); got != tt.want {
				t.Errorf("StatusOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCoverURLLocalPriority(t *testing.T) {
	a := Asset{CoverLocalPath: "/cache/c.jpg", CoverUrl: "https://cdn.example.com/c.jpg"}
	if got := CoverURL(&a); got != "/cache/c.jpg" {
		t.Errorf("CoverURL() = %s, want local path", got)
	}
	a.CoverLocalPath = ""
	if got := CoverURL(&a); got != "https://cdn.example.com/c.jpg" {
		t.Errorf("CoverURL() = %s, want remote url", got)
	}
}

func TestQueueInfoAliases(t *testing.T) {
	tests := []struct {
		name string
		data string
		want QueueInfo
	}{
		{"英文键", `{"pos":3,"total":5,"wait":2}`, QueueInfo{Pos: 3, Total: 5, Wait: 2}},
		{"中文键", `{"排队位置":3,"总任务数":5,"预计等待":2}`, QueueInfo{Pos: 3, Total: 5, Wait: 2}},
		{"缺失字段补零", `{"pos":1}`, QueueInfo{Pos: 1, Total: 0, Wait: 0}},
		{"空对象", `{}`, QueueInfo{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got QueueInfo
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if got != tt.want {
				t.Errorf("QueueInfo = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProjectQueueFields(t *testing.T) {
	now := time.Now()
	queued := Asset{QueueInfo: &QueueInfo{Pos: 3, Total: 5, Wait: 2}}
	p := Project(&queued, now)
	if p.Status != StatusQueued || p.QueuePos != 3 || p.QueueTotal != 5 || p.QueueWait != 2 {
		t.Errorf("Project(queued) = %+v", p)
	}

	creating := Asset{QueueInfo: &QueueInfo{Pos: 0, Total: 5, Wait: 2}}
	p = Project(&creating, now)
	if p.Status != StatusCreating {
		t.Errorf("Project(creating).Status = %s", p.Status)
	}

	generating := Asset{}
	p = Project(&generating, now)
	if p.Status != StatusGenerating || p.QueuePos != 0 || p.QueueTotal != 0 {
		t.Errorf("Project(generating) = %+v, want no queue text", p)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"125", "02:05"},
		{"5", "00:05"},
		{"0", "00:00"},
		{"", "00:00"},
		{"abc", "00:00"},
		{"-3", "00:00"},
		{"600", "10:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2024, 12, 16, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{"缺失", 0, "unknown"},
		{"今天凌晨", time.Date(2024, 12, 16, 0, 1, 0, 0, time.UTC).UnixMilli(), "today"},
		{"昨天深夜", time.Date(2024, 12, 15, 23, 59, 0, 0, time.UTC).UnixMilli(), "yesterday"},
		{"更早", time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC).UnixMilli(), "12/1"},
		{"跨年", time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC).UnixMilli(), "3/8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.ms, now); got != tt.want {
				t.Errorf("FormatDate(%d) = %s, want %s", tt.ms, got, tt.want)
			}
		})
	}
}

func TestGroupByDateFirstSeenOrder(t *testing.T) {
	now := time.Date(2024, 12, 16, 15, 30, 0, 0, time.UTC)
	dayMs := func(day int) int64 {
		return time.Date(2024, 12, day, 10, 0, 0, 0, time.UTC).UnixMilli()
	}

	list := []Asset{
		{Id: "a", CreatedAt: dayMs(16)}, // today
		{Id: "b", CreatedAt: dayMs(1)},  // 12/1
		{Id: "c", CreatedAt: dayMs(16)}, // today again
		{Id: "d"},                       // unknown
	}
	groups := GroupByDate(list, now)
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	if groups[0].Label != "today" || groups[1].Label != "12/1" || groups[2].Label != "unknown" {
		t.Errorf("group order = %s, %s, %s", groups[0].Label, groups[1].Label, groups[2].Label)
	}
	if len(groups[0].Assets) != 2 || groups[0].Assets[1].Id != "c" {
		t.Errorf("today bucket = %+v", groups[0].Assets)
	}
}
