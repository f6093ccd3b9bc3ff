package service

import (
	"context"
	"time"

	"github.com/ProjectsTask/EasyAuction/src/model"
	"github.com/ProjectsTask/EasyAuction/src/service/notify"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
)

// QueryEndedUnlinked 查询用户已得标且尚未挂到订单上的拍卖
func QueryEndedUnlinked(ctx context.Context, svcCtx *svc.ServerCtx, userId int64) ([]model.Auction, error) {
	return svcCtx.Dao.QueryEndedUnlinked(ctx, userId)
}

// QueryPendingPayment 查询用户待支付的得标拍卖
func QueryPendingPayment(ctx context.Context, svcCtx *svc.ServerCtx, userId int64) ([]model.Auction, error) {
	return svcCtx.Dao.QueryPendingPayment(ctx, userId)
}

// LinkAuctionsToOrder 把一批得标拍卖关联到结算订单
// 任一拍卖不满足条件 (非本人得标/已关联/状态不对) 则整批回滚
func LinkAuctionsToOrder(ctx context.Context, svcCtx *svc.ServerCtx, userId, orderId int64, auctionIds []int64) error {
	return svcCtx.Dao.LinkAuctionsToOrder(ctx, userId, orderId, auctionIds)
}

// UnlinkAuctionsFromOrder 解除订单与拍卖的关联, 拍卖回到可再次关联的状态
func UnlinkAuctionsFromOrder(ctx context.Context, svcCtx *svc.ServerCtx, orderId int64) error {
	return svcCtx.Dao.UnlinkAuctionsFromOrder(ctx, orderId)
}

// MarkOrderPaid 订单支付完成, 累加用户的完成支付计数
func MarkOrderPaid(ctx context.Context, svcCtx *svc.ServerCtx, orderId int64) (*model.AuctionOrder, error) {
	return svcCtx.Dao.MarkOrderPaid(ctx, orderId)
}

// FailAuctionPayment 单个拍卖支付超时处理
// 库存回收 + 弃拍记录 + 失败计数, 达到阈值时封禁并通知
func FailAuctionPayment(ctx context.Context, svcCtx *svc.ServerCtx, auctionId int64) (*model.Auction, error) {
	now := time.Now().Unix()
	cfg := svcCtx.C.Auction
	auction, banned, err := svcCtx.Dao.FailAuctionPayment(ctx, auctionId, 0, model.FailureReasonPaymentTimeout,
		now, true, cfg.BanThreshold, cfg.BanDuration)
	if err != nil {
		return nil, err
	}

	notify.Send(ctx, svcCtx.Notifier, notify.NewEvent(notify.EventPaymentDeadlineExceeded, auction.WinnerId, map[string]interface{}{
		"auction_id":  auction.Id,
		"winning_bid": auction.CurrentBid.String(),
	}))
	if banned {
		notify.Send(ctx, svcCtx.Notifier, notify.NewEvent(notify.EventUserBanned, auction.WinnerId, map[string]interface{}{
			"banned_until": now + cfg.BanDuration,
		}))
	}

	return auction, nil
}
