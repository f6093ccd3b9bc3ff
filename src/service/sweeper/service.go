package sweeper

import (
	"context"
	"time"

	"github.com/ProjectsTask/EasySwapBase/logger/xzap"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasyAuction/src/config"
	"github.com/ProjectsTask/EasyAuction/src/model"
	"github.com/ProjectsTask/EasyAuction/src/service/notify"
)

const (
	// SweepBatchLimit 单轮巡检最多处理的行数, 剩余的留给下一轮
	SweepBatchLimit = 200
)

// Clock 时钟抽象, 巡检的到期判断全部经由它取当前时间
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store 巡检需要的存储操作集合, 由 dao 实现
type Store interface {
	ListAutoEndDueAuctions(ctx context.Context, now, extendWindow int64, limit int) ([]int64, error)
	EndAuction(ctx context.Context, auctionId int64, now int64, paymentWindow int64) (*model.Auction, bool, error)
	ListPaymentOverdueAuctions(ctx context.Context, now int64, limit int) ([]int64, error)
	FailAuctionPayment(ctx context.Context, auctionId int64, requireOrder int64, reason string,
		now int64, incrStats bool, banThreshold, banDuration int64) (*model.Auction, bool, error)
	ListOverdueOrders(ctx context.Context, now int64, limit int) ([]model.AuctionOrder, error)
	CancelUnpaidOrder(ctx context.Context, orderId int64, now, banThreshold, banDuration int64) ([]model.Auction, bool, error)
	QueryAuctionBidders(ctx context.Context, auctionId int64, exclude int64) ([]int64, error)
}

// Service 拍卖后台巡检服务
// 三个独立循环: 到期自动结束 / 支付超时弃拍 / 未支付订单取消
// 每行在各自的事务里流转, 单行失败只记日志, 不影响同一轮的其他行
type Service struct {
	ctx      context.Context
	cfg      *config.Config
	store    Store
	notifier notify.Dispatcher
	clock    Clock
}

// New 初始化巡检服务, clock 传 nil 时使用系统时钟
func New(ctx context.Context, cfg *config.Config, store Store, notifier notify.Dispatcher, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{
		ctx:      ctx,
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		clock:    clock,
	}
}

// Start 启动全部巡检循环
func (s *Service) Start() {
	threading.GoSafe(s.autoEndLoop)
	threading.GoSafe(s.paymentFailLoop)
	threading.GoSafe(s.unpaidOrderLoop)
}

// autoEndLoop 自动结束巡检循环
func (s *Service) autoEndLoop() {
	ticker := time.NewTicker(time.Duration(s.cfg.Auction.AutoEndInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			xzap.WithContext(s.ctx).Info("auto end loop stopped due to context cancellation")
			return
		case <-ticker.C:
			s.SweepAutoEnd(s.clock.Now().Unix())
		}
	}
}

// paymentFailLoop 支付超时巡检循环
func (s *Service) paymentFailLoop() {
	ticker := time.NewTicker(time.Duration(s.cfg.Auction.PaymentFailInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			xzap.WithContext(s.ctx).Info("payment fail loop stopped due to context cancellation")
			return
		case <-ticker.C:
			s.SweepPaymentFailures(s.clock.Now().Unix())
		}
	}
}

// unpaidOrderLoop 未支付订单巡检循环
func (s *Service) unpaidOrderLoop() {
	ticker := time.NewTicker(time.Duration(s.cfg.Auction.UnpaidOrderInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			xzap.WithContext(s.ctx).Info("unpaid order loop stopped due to context cancellation")
			return
		case <-ticker.C:
			s.SweepUnpaidOrders(s.clock.Now().Unix())
		}
	}
}

// SweepAutoEnd 结束最后一次出价后超过顺延窗口仍无人加价的拍卖
// 结束语义与手动结束一致: 有出价得标进入支付窗口, 条件更新保证
// 与手动结束的竞争里只有一方生效
func (s *Service) SweepAutoEnd(now int64) {
	ids, err := s.store.ListAutoEndDueAuctions(s.ctx, now, s.cfg.Auction.BidExtendWindow, SweepBatchLimit)
	if err != nil {
		xzap.WithContext(s.ctx).Error("failed on list auto end due auctions", zap.Error(err))
		return
	}

	for _, id := range ids {
		auction, cancelled, err := s.store.EndAuction(s.ctx, id, now, s.cfg.Auction.PaymentWindow)
		if err != nil {
			// 行级失败: 可能被手动结束/取消抢先, 留给下一轮或直接跳过
			xzap.WithContext(s.ctx).Warn("failed on auto end auction",
				zap.Int64("auction_id", id), zap.Error(err))
			continue
		}

		if cancelled {
			s.notifyBidders(auction.Id, 0, notify.EventAuctionCancelled)
			continue
		}

		xzap.WithContext(s.ctx).Info("auction auto ended",
			zap.Int64("auction_id", auction.Id),
			zap.Int64("winner_id", auction.WinnerId))
		notify.Send(s.ctx, s.notifier, notify.NewEvent(notify.EventAuctionWon, auction.WinnerId, map[string]interface{}{
			"auction_id":       auction.Id,
			"winning_bid":      auction.CurrentBid.String(),
			"payment_deadline": auction.PaymentDeadline,
		}))
		s.notifyBidders(auction.Id, auction.WinnerId, notify.EventAuctionLost)
	}
}

// SweepPaymentFailures 处理支付窗口内始终未关联订单的得标拍卖
// 回补库存, 记弃拍, 累计弃拍次数并在达到阈值时封禁
func (s *Service) SweepPaymentFailures(now int64) {
	ids, err := s.store.ListPaymentOverdueAuctions(s.ctx, now, SweepBatchLimit)
	if err != nil {
		xzap.WithContext(s.ctx).Error("failed on list payment overdue auctions", zap.Error(err))
		return
	}

	for _, id := range ids {
		auction, banned, err := s.store.FailAuctionPayment(s.ctx, id, 0, model.FailureReasonPaymentTimeout,
			now, true, s.cfg.Auction.BanThreshold, s.cfg.Auction.BanDuration)
		if err != nil {
			xzap.WithContext(s.ctx).Warn("failed on fail auction payment",
				zap.Int64("auction_id", id), zap.Error(err))
			continue
		}

		xzap.WithContext(s.ctx).Info("auction payment failed",
			zap.Int64("auction_id", auction.Id),
			zap.Int64("winner_id", auction.WinnerId),
			zap.Bool("banned", banned))
		notify.Send(s.ctx, s.notifier, notify.NewEvent(notify.EventPaymentDeadlineExceeded, auction.WinnerId, map[string]interface{}{
			"auction_id":  auction.Id,
			"winning_bid": auction.CurrentBid.String(),
		}))
		if banned {
			notify.Send(s.ctx, s.notifier, notify.NewEvent(notify.EventUserBanned, auction.WinnerId, map[string]interface{}{
				"banned_until": now + s.cfg.Auction.BanDuration,
			}))
		}
	}
}

// SweepUnpaidOrders 取消支付截止时间已过的待支付订单
// 订单下的所有关联拍卖在同一事务里流转为支付失败, 弃拍计数对整单只累加一次
func (s *Service) SweepUnpaidOrders(now int64) {
	orders, err := s.store.ListOverdueOrders(s.ctx, now, SweepBatchLimit)
	if err != nil {
		xzap.WithContext(s.ctx).Error("failed on list overdue orders", zap.Error(err))
		return
	}

	for _, order := range orders {
		failed, banned, err := s.store.CancelUnpaidOrder(s.ctx, order.Id, now,
			s.cfg.Auction.BanThreshold, s.cfg.Auction.BanDuration)
		if err != nil {
			xzap.WithContext(s.ctx).Warn("failed on cancel unpaid order",
				zap.Int64("order_id", order.Id), zap.Error(err))
			continue
		}

		xzap.WithContext(s.ctx).Info("unpaid order cancelled",
			zap.Int64("order_id", order.Id),
			zap.Int64("user_id", order.UserId),
			zap.Int("auctions", len(failed)),
			zap.Bool("banned", banned))
		for _, auction := range failed {
			notify.Send(s.ctx, s.notifier, notify.NewEvent(notify.EventPaymentDeadlineExceeded, auction.WinnerId, map[string]interface{}{
				"auction_id":  auction.Id,
				"order_id":    order.Id,
				"winning_bid": auction.CurrentBid.String(),
			}))
		}
		if banned {
			notify.Send(s.ctx, s.notifier, notify.NewEvent(notify.EventUserBanned, order.UserId, map[string]interface{}{
				"banned_until": now + s.cfg.Auction.BanDuration,
			}))
		}
	}
}

// notifyBidders 给拍卖的去重出价人发送同类事件
func (s *Service) notifyBidders(auctionId, exclude int64, kind notify.EventKind) {
	bidders, err := s.store.QueryAuctionBidders(s.ctx, auctionId, exclude)
	if err != nil {
		xzap.WithContext(s.ctx).Warn("failed on query auction bidders",
			zap.Int64("auction_id", auctionId), zap.Error(err))
		return
	}
	for _, bidder := range bidders {
		notify.Send(s.ctx, s.notifier, notify.NewEvent(kind, bidder, map[string]interface{}{
			"auction_id": auctionId,
		}))
	}
}
