package service

import (
	"context"
	"time"

	"github.com/ProjectsTask/EasySwapBase/logger/xzap"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasyAuction/src/dao"
	"github.com/ProjectsTask/EasyAuction/src/errdef"
	"github.com/ProjectsTask/EasyAuction/src/model"
	"github.com/ProjectsTask/EasyAuction/src/service/notify"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
	"github.com/ProjectsTask/EasyAuction/src/types/v1"
)

// CreateAuction 创建拍卖
// 校验价格条款后, 在同一事务内预占库存并写入竞拍中状态的拍卖
func CreateAuction(ctx context.Context, svcCtx *svc.ServerCtx, operatorId int64, req types.CreateAuctionReq) (*model.Auction, error) {
	if req.Quantity <= 0 {
		return nil, errdef.Validation("quantity must be positive")
	}
	if err := model.CheckTerms(req.StartPrice, req.BuyOutPrice, req.MinIncrement); err != nil {
		return nil, err
	}

	auction := &model.Auction{
		VariantId:    req.VariantId,
		Quantity:     req.Quantity,
		StartPrice:   req.StartPrice,
		BuyOutPrice:  req.BuyOutPrice,
		CurrentBid:   req.StartPrice, // 无出价时当前价等于起拍价
		MinIncrement: req.MinIncrement,
		StartTime:    time.Now().Unix(),
		Status:       model.AuctionStatusActive,
		CreatedBy:    operatorId,
	}
	if err := svcCtx.Dao.CreateAuction(ctx, auction); err != nil {
		return nil, err
	}

	return auction, nil
}

// UpdateAuction 修改未产生出价的拍卖条款
func UpdateAuction(ctx context.Context, svcCtx *svc.ServerCtx, auctionId int64, req types.UpdateAuctionReq) (*model.Auction, error) {
	if req.Quantity <= 0 {
		return nil, errdef.Validation("quantity must be positive")
	}

	return svcCtx.Dao.UpdateAuctionTerms(ctx, auctionId, dao.AuctionUpdate{
		StartPrice:   req.StartPrice,
		BuyOutPrice:  req.BuyOutPrice,
		MinIncrement: req.MinIncrement,
		Quantity:     req.Quantity,
	})
}

// EndAuction 手动结束拍卖
// 有出价时最高出价者得标并进入支付窗口, 无出价时直接取消回收库存
// 与自动结束巡检的竞争由状态条件更新裁决, 落败的一方得到 InvalidState
func EndAuction(ctx context.Context, svcCtx *svc.ServerCtx, auctionId int64) (*model.Auction, error) {
	now := time.Now().Unix()
	auction, cancelled, err := svcCtx.Dao.EndAuction(ctx, auctionId, now, svcCtx.C.Auction.PaymentWindow)
	if err != nil {
		return nil, err
	}

	// 事务提交后再发通知, 投递失败不影响状态流转
	if cancelled {
		notifyBidders(ctx, svcCtx, auction, 0, notify.EventAuctionCancelled)
	} else {
		notifyOutcome(ctx, svcCtx, auction)
	}

	return auction, nil
}

// BuyOutAuction 一口价买断, 立即结束拍卖
func BuyOutAuction(ctx context.Context, svcCtx *svc.ServerCtx, auctionId, buyerId int64) (*model.Auction, error) {
	now := time.Now().Unix()
	auction, err := svcCtx.Dao.BuyOutAuction(ctx, auctionId, buyerId, now, svcCtx.C.Auction.PaymentWindow)
	if err != nil {
		return nil, err
	}

	notifyOutcome(ctx, svcCtx, auction)

	return auction, nil
}

// CancelAuction 取消竞拍中的拍卖并通知所有出价人
func CancelAuction(ctx context.Context, svcCtx *svc.ServerCtx, auctionId int64) (*model.Auction, error) {
	auction, err := svcCtx.Dao.CancelAuction(ctx, auctionId)
	if err != nil {
		return nil, err
	}

	notifyBidders(ctx, svcCtx, auction, 0, notify.EventAuctionCancelled)

	return auction, nil
}

// RelistAuction 将支付失败的拍卖按原条款重新上架, 并通知原拍卖的出价人
func RelistAuction(ctx context.Context, svcCtx *svc.ServerCtx, auctionId, operatorId int64) (*model.Auction, error) {
	now := time.Now().Unix()
	fresh, err := svcCtx.Dao.RelistAuction(ctx, auctionId, operatorId, now)
	if err != nil {
		return nil, err
	}

	bidders, err := svcCtx.Dao.QueryAuctionBidders(ctx, auctionId, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query source auction bidders")
	}
	for _, bidder := range bidders {
		notify.Send(ctx, svcCtx.Notifier, notify.NewEvent(notify.EventAuctionRelisted, bidder, map[string]interface{}{
			"auction_id":          fresh.Id,
			"original_auction_id": auctionId,
			"start_price":         fresh.StartPrice.String(),
		}))
	}

	return fresh, nil
}

// GetAuction 查询单个拍卖
func GetAuction(ctx context.Context, svcCtx *svc.ServerCtx, auctionId int64) (*model.Auction, error) {
	return svcCtx.Dao.GetAuction(ctx, auctionId)
}

// ListAuctions 分页查询拍卖
func ListAuctions(ctx context.Context, svcCtx *svc.ServerCtx, status uint8, page, pageSize int) ([]model.Auction, int64, error) {
	return svcCtx.Dao.ListAuctions(ctx, status, page, pageSize)
}

// GetVariantStock 查询变体当前可用库存 (管理端上架前核对)
func GetVariantStock(ctx context.Context, svcCtx *svc.ServerCtx, variantId int64) (*model.VariantStock, error) {
	return svcCtx.Dao.GetVariantStock(ctx, variantId)
}

// ListFailures 分页查询弃拍记录
func ListFailures(ctx context.Context, svcCtx *svc.ServerCtx, userId int64, page, pageSize int) ([]model.AuctionFailure, int64, error) {
	return svcCtx.Dao.ListFailures(ctx, userId, page, pageSize)
}

// notifyOutcome 拍卖结束后的结果通知: 赢家得标, 其余出价人落标
func notifyOutcome(ctx context.Context, svcCtx *svc.ServerCtx, auction *model.Auction) {
	notify.Send(ctx, svcCtx.Notifier, notify.NewEvent(notify.EventAuctionWon, auction.WinnerId, map[string]interface{}{
		"auction_id":       auction.Id,
		"winning_bid":      auction.CurrentBid.String(),
		"payment_deadline": auction.PaymentDeadline,
	}))
	notifyBidders(ctx, svcCtx, auction, auction.WinnerId, notify.EventAuctionLost)
}

// notifyBidders 给拍卖的去重出价人逐个发送同类事件, exclude 非 0 时跳过该用户
func notifyBidders(ctx context.Context, svcCtx *svc.ServerCtx, auction *model.Auction, exclude int64, kind notify.EventKind) {
	bidders, err := svcCtx.Dao.QueryAuctionBidders(ctx, auction.Id, exclude)
	if err != nil {
		// 通知是尽力而为, 查询失败只记日志
		xzap.WithContext(ctx).Warn("failed on query auction bidders",
			zap.Int64("auction_id", auction.Id), zap.Error(err))
		return
	}
	for _, bidder := range bidders {
		notify.Send(ctx, svcCtx.Notifier, notify.NewEvent(kind, bidder, map[string]interface{}{
			"auction_id": auction.Id,
		}))
	}
}
