package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasyAuction/src/config"
	"github.com/ProjectsTask/EasyAuction/src/model"
	"github.com/ProjectsTask/EasyAuction/src/service/notify"
)

// fixedClock 固定时间的时钟
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// recordDispatcher 记录投递事件
type recordDispatcher struct {
	events []*notify.Event
}

func (d *recordDispatcher) Dispatch(ctx context.Context, event *notify.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordDispatcher) byKind(kind notify.EventKind) []*notify.Event {
	var out []*notify.Event
	for _, e := range d.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// fakeStore 内存假存储, 按 id 预置结果
type fakeStore struct {
	autoEndDue    []int64
	endResults    map[int64]*model.Auction
	endCancelled  map[int64]bool
	endErrs       map[int64]error
	endedIds      []int64
	overdueIds    []int64
	failResults   map[int64]*model.Auction
	failBanned    map[int64]bool
	failErrs      map[int64]error
	overdueOrders []model.AuctionOrder
	cancelFailed  map[int64][]model.Auction
	cancelBanned  map[int64]bool
	cancelErrs    map[int64]error
	bidders       map[int64][]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		endResults:   make(map[int64]*model.Auction),
		endCancelled: make(map[int64]bool),
		endErrs:      make(map[int64]error),
		failResults:  make(map[int64]*model.Auction),
		failBanned:   make(map[int64]bool),
		failErrs:     make(map[int64]error),
		cancelFailed: make(map[int64][]model.Auction),
		cancelBanned: make(map[int64]bool),
		cancelErrs:   make(map[int64]error),
		bidders:      make(map[int64][]int64),
	}
}

func (s *fakeStore) ListAutoEndDueAuctions(ctx context.Context, now, extendWindow int64, limit int) ([]int64, error) {
	return s.autoEndDue, nil
}

func (s *fakeStore) EndAuction(ctx context.Context, auctionId int64, now int64, paymentWindow int64) (*model.Auction, bool, error) {
	if err := s.endErrs[auctionId]; err != nil {
		return nil, false, err
	}
	s.endedIds = append(s.endedIds, auctionId)
	return s.endResults[auctionId], s.endCancelled[auctionId], nil
}

func (s *fakeStore) ListPaymentOverdueAuctions(ctx context.Context, now int64, limit int) ([]int64, error) {
	return s.overdueIds, nil
}

func (s *fakeStore) FailAuctionPayment(ctx context.Context, auctionId int64, requireOrder int64, reason string,
	now int64, incrStats bool, banThreshold, banDuration int64) (*model.Auction, bool, error) {
	if err := s.failErrs[auctionId]; err != nil {
		return nil, false, err
	}
	return s.failResults[auctionId], s.failBanned[auctionId], nil
}

func (s *fakeStore) ListOverdueOrders(ctx context.Context, now int64, limit int) ([]model.AuctionOrder, error) {
	return s.overdueOrders, nil
}

func (s *fakeStore) CancelUnpaidOrder(ctx context.Context, orderId int64, now, banThreshold, banDuration int64) ([]model.Auction, bool, error) {
	if err := s.cancelErrs[orderId]; err != nil {
		return nil, false, err
	}
	return s.cancelFailed[orderId], s.cancelBanned[orderId], nil
}

func (s *fakeStore) QueryAuctionBidders(ctx context.Context, auctionId int64, exclude int64) ([]int64, error) {
	var out []int64
	for _, b := range s.bidders[auctionId] {
		if exclude != 0 && b == exclude {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func testConfig() *config.Config {
	auction := &config.AuctionCfg{}
	auction.FillDefaults()
	return &config.Config{Auction: auction}
}

func newTestService(store *fakeStore, dispatcher *recordDispatcher, now int64) *Service {
	return New(context.Background(), testConfig(), store, dispatcher, fixedClock{now: time.Unix(now, 0)})
}

func TestSweepAutoEnd(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordDispatcher{}
	now := int64(1_000_000)

	// 1 号正常结束得标, 2 号行级失败, 3 号无出价直接取消
	store.autoEndDue = []int64{1, 2, 3}
	store.endResults[1] = &model.Auction{Id: 1, Status: model.AuctionStatusEnded, WinnerId: 7, CurrentBid: decimal.NewFromInt(13000), PaymentDeadline: now + 172800}
	store.bidders[1] = []int64{7, 8, 9}
	store.endErrs[2] = errors.New("deadlock")
	store.endResults[3] = &model.Auction{Id: 3, Status: model.AuctionStatusCancelled}
	store.endCancelled[3] = true
	store.bidders[3] = nil

	s := newTestService(store, dispatcher, now)
	s.SweepAutoEnd(now)

	// 2 号失败不影响 1 号与 3 号的处理
	require.Equal(t, []int64{1, 3}, store.endedIds)

	won := dispatcher.byKind(notify.EventAuctionWon)
	require.Len(t, won, 1)
	require.Equal(t, int64(7), won[0].Recipient)

	lost := dispatcher.byKind(notify.EventAuctionLost)
	require.Len(t, lost, 2)
	for _, e := range lost {
		require.NotEqual(t, int64(7), e.Recipient)
	}
}

func TestSweepAutoEndNoDue(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordDispatcher{}

	s := newTestService(store, dispatcher, 1000)
	s.SweepAutoEnd(1000)

	require.Empty(t, store.endedIds)
	require.Empty(t, dispatcher.events)
}

func TestSweepPaymentFailures(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordDispatcher{}
	now := int64(2_000_000)

	// 10 号弃拍后达到阈值触发封禁, 11 号只计数
	store.overdueIds = []int64{10, 11}
	store.failResults[10] = &model.Auction{Id: 10, WinnerId: 7, CurrentBid: decimal.NewFromInt(20000)}
	store.failBanned[10] = true
	store.failResults[11] = &model.Auction{Id: 11, WinnerId: 8, CurrentBid: decimal.NewFromInt(15000)}

	s := newTestService(store, dispatcher, now)
	s.SweepPaymentFailures(now)

	exceeded := dispatcher.byKind(notify.EventPaymentDeadlineExceeded)
	require.Len(t, exceeded, 2)

	banned := dispatcher.byKind(notify.EventUserBanned)
	require.Len(t, banned, 1)
	require.Equal(t, int64(7), banned[0].Recipient)
}

func TestSweepPaymentFailuresRowIsolation(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordDispatcher{}
	now := int64(2_000_000)

	store.overdueIds = []int64{10, 11}
	store.failErrs[10] = errors.New("state changed concurrently")
	store.failResults[11] = &model.Auction{Id: 11, WinnerId: 8, CurrentBid: decimal.NewFromInt(15000)}

	s := newTestService(store, dispatcher, now)
	s.SweepPaymentFailures(now)

	exceeded := dispatcher.byKind(notify.EventPaymentDeadlineExceeded)
	require.Len(t, exceeded, 1)
	require.Equal(t, int64(8), exceeded[0].Recipient)
}

func TestSweepUnpaidOrders(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordDispatcher{}
	now := int64(3_000_000)

	// 一个订单挂两个拍卖: 每个拍卖一条超时通知, 封禁通知整单只有一条
	store.overdueOrders = []model.AuctionOrder{{Id: 5, UserId: 7, Status: model.OrderStatusPendingPayment}}
	store.cancelFailed[5] = []model.Auction{
		{Id: 1, WinnerId: 7, CurrentBid: decimal.NewFromInt(13000)},
		{Id: 2, WinnerId: 7, CurrentBid: decimal.NewFromInt(21000)},
	}
	store.cancelBanned[5] = true

	s := newTestService(store, dispatcher, now)
	s.SweepUnpaidOrders(now)

	exceeded := dispatcher.byKind(notify.EventPaymentDeadlineExceeded)
	require.Len(t, exceeded, 2)

	banned := dispatcher.byKind(notify.EventUserBanned)
	require.Len(t, banned, 1)
	require.Equal(t, int64(7), banned[0].Recipient)
	require.Equal(t, now+testConfig().Auction.BanDuration, banned[0].Data["banned_until"])
}
