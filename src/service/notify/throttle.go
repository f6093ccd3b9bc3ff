package notify

import (
	"context"
	"fmt"
)

// ThrottleStore 限流状态所需的最小 KV 能力, *xkv.Store 直接满足
// 放在共享的 Redis 上, 多实例部署时限流窗口依然成立
type ThrottleStore interface {
	SetnxEx(key, value string, seconds int) (bool, error)
}

// Throttled 对被超价通知做按用户限流的装饰器
// 竞价战期间同一个用户可能在几分钟内被反复超价,
// 限流窗口内只投递第一条, 其余直接丢弃
type Throttled struct {
	next          Dispatcher
	store         ThrottleStore
	windowSeconds int64
}

func NewThrottled(next Dispatcher, store ThrottleStore, windowSeconds int64) *Throttled {
	return &Throttled{
		next:          next,
		store:         store,
		windowSeconds: windowSeconds,
	}
}

func outbidThrottleKey(recipient int64) string {
	return fmt.Sprintf("easyauction:notify:outbid:%d", recipient)
}

func (t *Throttled) Dispatch(ctx context.Context, event *Event) error {
	// 只有被超价事件需要限流, 其他结果类通知一次性且必达
	if event.Kind != EventOutbid {
		return t.next.Dispatch(ctx, event)
	}

	ok, err := t.store.SetnxEx(outbidThrottleKey(event.Recipient), event.Id, int(t.windowSeconds))
	if err != nil {
		// 限流状态不可用时宁可多发不少发
		return t.next.Dispatch(ctx, event)
	}
	if !ok {
		return nil
	}

	return t.next.Dispatch(ctx, event)
}
