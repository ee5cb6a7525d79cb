package common

import (
	"context"
	"fmt"
	"math"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/seevideo/see-video-studio/common/logger"
)

var studioGoPool gopool.Pool

func init() {
	studioGoPool = gopool.NewPool("gopool.StudioPool", math.MaxInt32, gopool.NewConfig())
	studioGoPool.SetPanicHandler(func(ctx context.Context, i interface{}) {
		logger.SysError(fmt.Sprintf("panic in gopool.StudioPool: %v", i))
	})
}

// SafeGoroutine 在共享池里跑 fire-and-forget 任务，panic 不会带崩进程
func SafeGoroutine(f func()) {
	studioGoPool.Go(f)
}

func SafeCtxGoroutine(ctx context.Context, f func()) {
	studioGoPool.CtxGo(ctx, f)
}
