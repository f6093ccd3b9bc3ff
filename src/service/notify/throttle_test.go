package notify

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// recordDispatcher 记录实际投递的事件
type recordDispatcher struct {
	events []*Event
}

func (d *recordDispatcher) Dispatch(ctx context.Context, event *Event) error {
	d.events = append(d.events, event)
	return nil
}

// fakeThrottleStore 内存版 SetnxEx
type fakeThrottleStore struct {
	keys map[string]bool
	err  error
}

func newFakeThrottleStore() *fakeThrottleStore {
	return &fakeThrottleStore{keys: make(map[string]bool)}
}

func (s *fakeThrottleStore) SetnxEx(key, value string, seconds int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func TestThrottledOutbid(t *testing.T) {
	next := &recordDispatcher{}
	store := newFakeThrottleStore()
	throttled := NewThrottled(next, store, 1800)
	ctx := context.Background()

	// 同一用户窗口内只投递第一条
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventOutbid, 7, nil)))
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventOutbid, 7, nil)))
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventOutbid, 7, nil)))
	require.Len(t, next.events, 1)

	// 不同用户互不影响
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventOutbid, 8, nil)))
	require.Len(t, next.events, 2)
}

func TestThrottledPassesOtherKinds(t *testing.T) {
	next := &recordDispatcher{}
	throttled := NewThrottled(next, newFakeThrottleStore(), 1800)
	ctx := context.Background()

	// 结果类通知不限流
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventAuctionWon, 7, nil)))
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventAuctionWon, 7, nil)))
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventUserBanned, 7, nil)))
	require.Len(t, next.events, 3)
}

func TestThrottledFailsOpen(t *testing.T) {
	next := &recordDispatcher{}
	store := newFakeThrottleStore()
	store.err = errors.New("redis down")
	throttled := NewThrottled(next, store, 1800)
	ctx := context.Background()

	// 限流状态不可用时宁可多发不少发
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventOutbid, 7, nil)))
	require.NoError(t, throttled.Dispatch(ctx, NewEvent(EventOutbid, 7, nil)))
	require.Len(t, next.events, 2)
}

func TestSendSwallowsDispatchError(t *testing.T) {
	require.NotPanics(t, func() {
		Send(context.Background(), nil, NewEvent(EventOutbid, 7, nil))
	})
}
