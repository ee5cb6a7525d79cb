package controller

import (
	"github.com/seevideo/see-video-studio/generation/submit"
	"github.com/seevideo/see-video-studio/monitor"
	"github.com/seevideo/see-video-studio/upstream"
)

var (
	upstreamClient *upstream.Client
	submitCtl      *submit.Controller
	creditsMon     *monitor.CreditsRefresher
)

// Setup 初始化 controller 层共享的上游客户端和后台组件，
// 必须在路由注册前调用一次。
func Setup() error {
	client, err := upstream.NewClient()
	if err != nil {
		return err
	}
	upstreamClient = client
	creditsMon = monitor.NewCreditsRefresher(client)
	submitCtl = submit.NewController(client, creditsMon)
	return nil
}

// StopBackground 停掉所有后台刷新协程，进程退出前调用
func StopBackground() {
	if creditsMon != nil {
		creditsMon.StopAll()
	}
}
