package dao

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuction/src/errdef"
	"github.com/ProjectsTask/EasyAuction/src/model"
)

// PlaceBid 出价核心事务
// 以行锁串行化同一拍卖上的并发出价:
// 1. 锁定拍卖行后基于最新状态做全部校验 (状态/封禁/买断线/最低加价/自我抬价)
// 2. 插入出价记录
// 3. 同一事务内推进当前价, 领先者, 最后出价时间, 并把结束时间顺延一个防狙击窗口
// 支付截止时间不在这里写入, 只在拍卖进入 Ended 时确定
// 返回更新后的拍卖与被超价的前领先者 (无则为 0)
func (d *Dao) PlaceBid(ctx context.Context, auctionId, bidderId int64, amount decimal.Decimal,
	now int64, extendWindow int64) (*model.Auction, int64, error) {
	var out *model.Auction
	var prevLeader int64
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := d.getAuctionForUpdate(tx, auctionId)
		if err != nil {
			return err
		}

		if auction.Status != model.AuctionStatusActive {
			return errdef.InvalidState("auction is not active")
		}

		stats, err := d.getUserStats(tx, bidderId)
		if err != nil {
			return err
		}
		if stats.IsBanned(now) {
			return errdef.Forbidden("bidder is banned from bidding")
		}

		if err := auction.CheckBid(bidderId, amount); err != nil {
			return err
		}

		bid := &model.Bid{
			AuctionId: auction.Id,
			BidderId:  bidderId,
			BidAmount: amount,
			BidTime:   now,
		}
		if err := tx.Table(model.BidTableName()).Create(bid).Error; err != nil {
			return errors.Wrap(err, "failed on create bid")
		}

		endTime := now + extendWindow
		// 以当前价作为额外守卫: 即便锁语义被降级 (如隔离级别配置异常),
		// 两笔并发出价也不可能基于同一个旧价都更新成功
		result := tx.Table(model.AuctionTableName()).
			Where("id = ? and status = ? and current_bid = ?", auction.Id, model.AuctionStatusActive, auction.CurrentBid).
			Updates(map[string]interface{}{
				"current_bid":   amount,
				"leader_id":     bidderId,
				"last_bid_time": now,
				"end_time":      endTime,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on advance auction price")
		}
		if result.RowsAffected == 0 {
			return errdef.Conflict("bid lost the race, retry with the current price")
		}

		prevLeader = auction.LeaderId
		auction.CurrentBid = amount
		auction.LeaderId = bidderId
		auction.LastBidTime = now
		auction.EndTime = endTime
		out = auction
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return out, prevLeader, nil
}

// getTopBid 查询拍卖的最高出价, 不存在时返回 nil
func (d *Dao) getTopBid(tx *gorm.DB, auctionId int64) (*model.Bid, error) {
	var bid model.Bid
	err := tx.Table(model.BidTableName()).
		Where("auction_id = ?", auctionId).
		Order("bid_amount desc").
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed on get top bid")
	}

	return &bid, nil
}

// QueryAuctionBids 查询拍卖的出价历史, 按金额从高到低
func (d *Dao) QueryAuctionBids(ctx context.Context, auctionId int64, page, pageSize int) ([]model.Bid, int64, error) {
	var bids []model.Bid
	var total int64

	db := d.DB.WithContext(ctx).Table(model.BidTableName()).
		Where("auction_id = ?", auctionId)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on count auction bids")
	}
	if err := db.Order("bid_amount desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&bids).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on query auction bids")
	}

	return bids, total, nil
}

// QueryUserBids 查询用户的出价记录
func (d *Dao) QueryUserBids(ctx context.Context, userId int64, page, pageSize int) ([]model.Bid, int64, error) {
	var bids []model.Bid
	var total int64

	db := d.DB.WithContext(ctx).Table(model.BidTableName()).
		Where("bidder_id = ?", userId)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on count user bids")
	}
	if err := db.Order("bid_time desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&bids).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on query user bids")
	}

	return bids, total, nil
}

// QueryAuctionBidders 查询参与过拍卖的去重出价人, 用于结果通知
// exclude 非 0 时排除该用户 (通常是赢家或操作发起者)
func (d *Dao) QueryAuctionBidders(ctx context.Context, auctionId int64, exclude int64) ([]int64, error) {
	var bidders []int64
	db := d.DB.WithContext(ctx).Table(model.BidTableName()).
		Distinct("bidder_id").
		Where("auction_id = ?", auctionId)
	if exclude != 0 {
		db = db.Where("bidder_id != ?", exclude)
	}
	if err := db.Pluck("bidder_id", &bidders).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query auction bidders")
	}

	return bidders, nil
}
