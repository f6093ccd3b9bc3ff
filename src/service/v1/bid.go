package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ProjectsTask/EasyAuction/src/model"
	"github.com/ProjectsTask/EasyAuction/src/service/notify"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
)

// PlaceBid 出价
// 1. 事务内锁行校验封禁/状态/金额, 写出价记录并条件更新当前价
// 2. 提交成功后给被超越的前领先者发节流的 outbid 通知
// 3. 每次有效出价把结束时间顺延一个出价顺延窗口
func PlaceBid(ctx context.Context, svcCtx *svc.ServerCtx, auctionId, bidderId int64, amount decimal.Decimal) (*model.Auction, error) {
	now := time.Now().Unix()
	auction, prevLeader, err := svcCtx.Dao.PlaceBid(ctx, auctionId, bidderId, amount, now, svcCtx.C.Auction.BidExtendWindow)
	if err != nil {
		return nil, err
	}

	if prevLeader != 0 && prevLeader != bidderId {
		notify.Send(ctx, svcCtx.Notifier, notify.NewEvent(notify.EventOutbid, prevLeader, map[string]interface{}{
			"auction_id":  auction.Id,
			"current_bid": auction.CurrentBid.String(),
		}))
	}

	return auction, nil
}

// QueryAuctionBids 分页查询拍卖的出价历史, 按金额降序
func QueryAuctionBids(ctx context.Context, svcCtx *svc.ServerCtx, auctionId int64, page, pageSize int) ([]model.Bid, int64, error) {
	return svcCtx.Dao.QueryAuctionBids(ctx, auctionId, page, pageSize)
}

// GetUserStats 查询用户的拍卖统计与封禁状态
func GetUserStats(ctx context.Context, svcCtx *svc.ServerCtx, userId int64) (*model.UserAuctionStats, error) {
	return svcCtx.Dao.GetUserStats(ctx, userId)
}

// QueryUserBids 分页查询用户的出价历史
func QueryUserBids(ctx context.Context, svcCtx *svc.ServerCtx, userId int64, page, pageSize int) ([]model.Bid, int64, error) {
	return svcCtx.Dao.QueryUserBids(ctx, userId, page, pageSize)
}
