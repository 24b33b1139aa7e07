package common

import (
	"context"
	"fmt"
	"math"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/songquanpeng/image-studio/common/logger"
)

var relayGoPool gopool.Pool

func init() {
	relayGoPool = gopool.NewPool("gopool.RelayPool", math.MaxInt32, gopool.NewConfig())
	relayGoPool.SetPanicHandler(func(ctx context.Context, i interface{}) {
		logger.Error(ctx, fmt.Sprintf("panic in gopool.RelayPool: %v", i))
	})
}

// RelayCtxGo runs f on the shared pool; panics are logged, not propagated.
func RelayCtxGo(ctx context.Context, f func()) {
	relayGoPool.CtxGo(ctx, f)
}
