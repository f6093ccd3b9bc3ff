package dao

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProjectsTask/EasyAuction/src/errdef"
	"github.com/ProjectsTask/EasyAuction/src/model"
)

// getAuctionForUpdate 在事务内以行锁读取拍卖记录 (SELECT ... FOR UPDATE)
// 出价与状态流转的 "读当前价 -> 校验 -> 写新价" 序列都必须先拿到这把行锁,
// 两笔并发出价只会有一笔先拿到锁, 后者会基于前者提交后的最新状态重新校验
func (d *Dao) getAuctionForUpdate(tx *gorm.DB, auctionId int64) (*model.Auction, error) {
	var auction model.Auction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Table(model.AuctionTableName()).
		Where("id = ?", auctionId).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdef.WrapNotFound(err, "auction not found")
		}
		return nil, errors.Wrap(err, "failed on get auction for update")
	}

	return &auction, nil
}

// GetAuction 查询单个拍卖
func (d *Dao) GetAuction(ctx context.Context, auctionId int64) (*model.Auction, error) {
	var auction model.Auction
	err := d.DB.WithContext(ctx).Table(model.AuctionTableName()).
		Where("id = ?", auctionId).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdef.WrapNotFound(err, "auction not found")
		}
		return nil, errors.Wrap(err, "failed on get auction")
	}

	return &auction, nil
}

// ListAuctions 分页查询拍卖, status 为 0 时不过滤状态
func (d *Dao) ListAuctions(ctx context.Context, status uint8, page, pageSize int) ([]model.Auction, int64, error) {
	var auctions []model.Auction
	var total int64

	db := d.DB.WithContext(ctx).Table(model.AuctionTableName())
	if status != 0 {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on count auctions")
	}
	if err := db.Order("id desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&auctions).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on list auctions")
	}

	return auctions, total, nil
}

// CreateAuction 创建拍卖并预占库存, 两者在同一事务内
func (d *Dao) CreateAuction(ctx context.Context, auction *model.Auction) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.reserveStock(tx, auction.VariantId, auction.Quantity); err != nil {
			return err
		}
		if err := tx.Table(model.AuctionTableName()).Create(auction).Error; err != nil {
			return errors.Wrap(err, "failed on create auction")
		}
		return nil
	})
}

// AuctionUpdate 管理员可调整的条款字段
type AuctionUpdate struct {
	StartPrice   decimal.Decimal
	BuyOutPrice  decimal.Decimal
	MinIncrement decimal.Decimal
	Quantity     int64
}

// UpdateAuctionTerms 修改未产生出价的拍卖条款
// 数量变化会在同一事务内补扣或回补库存差额
func (d *Dao) UpdateAuctionTerms(ctx context.Context, auctionId int64, upd AuctionUpdate) (*model.Auction, error) {
	var out *model.Auction
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := d.getAuctionForUpdate(tx, auctionId)
		if err != nil {
			return err
		}
		if err := auction.CheckUpdate(); err != nil {
			return err
		}
		if err := model.CheckTerms(upd.StartPrice, upd.BuyOutPrice, upd.MinIncrement); err != nil {
			return err
		}

		// 数量变化: 增加需要补预占库存 (库存不足则失败), 减少则回补差额
		delta := upd.Quantity - auction.Quantity
		if delta > 0 {
			if err := d.reserveStock(tx, auction.VariantId, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := d.releaseStock(tx, auction.VariantId, -delta); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"start_price":   upd.StartPrice,
			"buy_out_price": upd.BuyOutPrice,
			"min_increment": upd.MinIncrement,
			"quantity":      upd.Quantity,
			"current_bid":   upd.StartPrice, // 无出价时当前价始终等于起拍价
		}
		if err := tx.Table(model.AuctionTableName()).
			Where("id = ?", auction.Id).
			Updates(updates).Error; err != nil {
			return errors.Wrap(err, "failed on update auction terms")
		}

		auction.StartPrice = upd.StartPrice
		auction.BuyOutPrice = upd.BuyOutPrice
		auction.MinIncrement = upd.MinIncrement
		auction.Quantity = upd.Quantity
		auction.CurrentBid = upd.StartPrice
		out = auction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// EndAuction 结束一个竞拍中的拍卖 (管理员手动触发或巡检自动触发)
// 有出价: 最高出价者胜出, 写入支付截止时间并累加其获胜计数
// 无出价: 无人可得标, 直接取消并回补库存 (cancelled 返回 true)
// 状态条件更新保证与并发的另一次结束操作只有一方生效, 另一方得到 InvalidState
func (d *Dao) EndAuction(ctx context.Context, auctionId int64, now int64, paymentWindow int64) (*model.Auction, bool, error) {
	var out *model.Auction
	var cancelled bool
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := d.getAuctionForUpdate(tx, auctionId)
		if err != nil {
			return err
		}
		if auction.Status != model.AuctionStatusActive {
			return errdef.InvalidState("auction is not active")
		}

		topBid, err := d.getTopBid(tx, auction.Id)
		if err != nil {
			return err
		}
		if topBid == nil {
			// 无出价, 走取消路径回收库存
			// LastBidTime 非零却查不到出价属于数据完整性异常, 同样按取消兜底
			if err := d.releaseStock(tx, auction.VariantId, auction.Quantity); err != nil {
				return err
			}
			result := tx.Table(model.AuctionTableName()).
				Where("id = ? and status = ?", auction.Id, model.AuctionStatusActive).
				Updates(map[string]interface{}{"status": model.AuctionStatusCancelled})
			if result.Error != nil {
				return errors.Wrap(result.Error, "failed on cancel auction without bids")
			}
			if result.RowsAffected == 0 {
				return errdef.InvalidState("auction state changed concurrently")
			}
			auction.Status = model.AuctionStatusCancelled
			cancelled = true
			out = auction
			return nil
		}

		deadline := now + paymentWindow
		result := tx.Table(model.AuctionTableName()).
			Where("id = ? and status = ?", auction.Id, model.AuctionStatusActive).
			Updates(map[string]interface{}{
				"status":           model.AuctionStatusEnded,
				"winner_id":        topBid.BidderId,
				"payment_deadline": deadline,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on end auction")
		}
		if result.RowsAffected == 0 {
			return errdef.InvalidState("auction state changed concurrently")
		}

		if err := d.incrementWon(tx, topBid.BidderId, now); err != nil {
			return err
		}

		auction.Status = model.AuctionStatusEnded
		auction.WinnerId = topBid.BidderId
		auction.PaymentDeadline = deadline
		out = auction
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return out, cancelled, nil
}

// BuyOutAuction 一口价买断
// 绕过加价幅度与领先者校验, 直接以 BuyOutPrice 成交并结束拍卖
// 同时补写一条出价记录, 保证 "当前价 == 出价历史最大值" 的不变式对买断同样成立
func (d *Dao) BuyOutAuction(ctx context.Context, auctionId, buyerId int64, now int64, paymentWindow int64) (*model.Auction, error) {
	var out *model.Auction
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := d.getAuctionForUpdate(tx, auctionId)
		if err != nil {
			return err
		}
		if err := auction.CheckBuyOut(); err != nil {
			return err
		}

		stats, err := d.getUserStats(tx, buyerId)
		if err != nil {
			return err
		}
		if stats.IsBanned(now) {
			return errdef.Forbidden("buyer is banned from bidding")
		}

		bid := &model.Bid{
			AuctionId: auction.Id,
			BidderId:  buyerId,
			BidAmount: auction.BuyOutPrice,
			BidTime:   now,
		}
		if err := tx.Table(model.BidTableName()).Create(bid).Error; err != nil {
			return errors.Wrap(err, "failed on create buy out bid")
		}

		deadline := now + paymentWindow
		result := tx.Table(model.AuctionTableName()).
			Where("id = ? and status = ?", auction.Id, model.AuctionStatusActive).
			Updates(map[string]interface{}{
				"status":           model.AuctionStatusEnded,
				"current_bid":      auction.BuyOutPrice,
				"leader_id":        buyerId,
				"winner_id":        buyerId,
				"last_bid_time":    now,
				"payment_deadline": deadline,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on buy out auction")
		}
		if result.RowsAffected == 0 {
			return errdef.InvalidState("auction state changed concurrently")
		}

		if err := d.incrementWon(tx, buyerId, now); err != nil {
			return err
		}

		auction.Status = model.AuctionStatusEnded
		auction.CurrentBid = auction.BuyOutPrice
		auction.LeaderId = buyerId
		auction.WinnerId = buyerId
		auction.LastBidTime = now
		auction.PaymentDeadline = deadline
		out = auction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// CancelAuction 取消竞拍中的拍卖并回补库存
func (d *Dao) CancelAuction(ctx context.Context, auctionId int64) (*model.Auction, error) {
	var out *model.Auction
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := d.getAuctionForUpdate(tx, auctionId)
		if err != nil {
			return err
		}
		if auction.Status != model.AuctionStatusActive {
			return errdef.InvalidState("auction is not active")
		}

		if err := d.releaseStock(tx, auction.VariantId, auction.Quantity); err != nil {
			return err
		}
		result := tx.Table(model.AuctionTableName()).
			Where("id = ? and status = ?", auction.Id, model.AuctionStatusActive).
			Updates(map[string]interface{}{"status": model.AuctionStatusCancelled})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on cancel auction")
		}
		if result.RowsAffected == 0 {
			return errdef.InvalidState("auction state changed concurrently")
		}

		auction.Status = model.AuctionStatusCancelled
		out = auction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// RelistAuction 将支付失败的拍卖按原条款重新上架
// 同一事务内: 重新预占库存 -> 创建新的竞拍中拍卖 -> 原拍卖流转为 Relisted (终态)
// 一个失败拍卖最多只会派生一个新拍卖, 并发 relist 只有一方能完成状态条件更新
func (d *Dao) RelistAuction(ctx context.Context, auctionId, operatorId int64, now int64) (*model.Auction, error) {
	var fresh *model.Auction
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, err := d.getAuctionForUpdate(tx, auctionId)
		if err != nil {
			return err
		}
		if err := source.CheckRelist(); err != nil {
			return err
		}

		if err := d.reserveStock(tx, source.VariantId, source.Quantity); err != nil {
			return err
		}

		relisted := &model.Auction{
			VariantId:         source.VariantId,
			Quantity:          source.Quantity,
			StartPrice:        source.StartPrice,
			BuyOutPrice:       source.BuyOutPrice,
			CurrentBid:        source.StartPrice,
			MinIncrement:      source.MinIncrement,
			StartTime:         now,
			Status:            model.AuctionStatusActive,
			IsRelisted:        true,
			OriginalAuctionId: source.Id,
			CreatedBy:         operatorId,
		}
		if err := tx.Table(model.AuctionTableName()).Create(relisted).Error; err != nil {
			return errors.Wrap(err, "failed on create relisted auction")
		}

		result := tx.Table(model.AuctionTableName()).
			Where("id = ? and status = ?", source.Id, model.AuctionStatusPaymentFailed).
			Updates(map[string]interface{}{"status": model.AuctionStatusRelisted})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on mark auction relisted")
		}
		if result.RowsAffected == 0 {
			return errdef.InvalidState("auction state changed concurrently")
		}

		if err := d.markFailuresRelisted(tx, source.Id); err != nil {
			return err
		}

		fresh = relisted
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fresh, nil
}

// FailAuctionPayment 将支付超时的拍卖置为支付失败
// 同一事务内: 回补库存 -> 状态流转 -> 写弃拍记录 -> 累加弃拍计数并按策略封禁
// requireOrder 非 0 时要求拍卖当前关联该订单 (未支付订单巡检路径),
// 为 0 时要求拍卖尚未关联订单 (支付窗口超时巡检路径)
// incrStats 为 false 时跳过计数累加 (订单级巡检对同一买家只累加一次)
func (d *Dao) FailAuctionPayment(ctx context.Context, auctionId int64, requireOrder int64, reason string,
	now int64, incrStats bool, banThreshold, banDuration int64) (*model.Auction, bool, error) {
	var out *model.Auction
	var banned bool
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auction, err := d.getAuctionForUpdate(tx, auctionId)
		if err != nil {
			return err
		}
		if auction.Status != model.AuctionStatusEnded || auction.OrderId != requireOrder {
			return errdef.InvalidState("auction is not awaiting payment")
		}

		if err := d.releaseStock(tx, auction.VariantId, auction.Quantity); err != nil {
			return err
		}
		result := tx.Table(model.AuctionTableName()).
			Where("id = ? and status = ? and order_id = ?", auction.Id, model.AuctionStatusEnded, requireOrder).
			Updates(map[string]interface{}{
				"status":   model.AuctionStatusPaymentFailed,
				"order_id": 0,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on mark auction payment failed")
		}
		if result.RowsAffected == 0 {
			return errdef.InvalidState("auction state changed concurrently")
		}

		failure := &model.AuctionFailure{
			AuctionId:       auction.Id,
			WinnerId:        auction.WinnerId,
			WinningBid:      auction.CurrentBid,
			PaymentDeadline: auction.PaymentDeadline,
			Reason:          reason,
		}
		if err := d.createFailure(tx, failure); err != nil {
			return err
		}

		if incrStats {
			banned, err = d.incrementFailed(tx, auction.WinnerId, now, banThreshold, banDuration)
			if err != nil {
				return err
			}
		}

		auction.Status = model.AuctionStatusPaymentFailed
		auction.OrderId = 0
		out = auction
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return out, banned, nil
}

// ListAutoEndDueAuctions 选出最后一次出价已超过顺延窗口的竞拍中拍卖
// 只按状态限定条件选行, 重复执行天然幂等
func (d *Dao) ListAutoEndDueAuctions(ctx context.Context, now, extendWindow int64, limit int) ([]int64, error) {
	var ids []int64
	err := d.DB.WithContext(ctx).Table(model.AuctionTableName()).
		Where("status = ? and last_bid_time > 0 and last_bid_time <= ?", model.AuctionStatusActive, now-extendWindow).
		Order("last_bid_time asc").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed on list auto end due auctions")
	}

	return ids, nil
}

// ListPaymentOverdueAuctions 选出支付窗口已过且未关联订单的已结束拍卖
func (d *Dao) ListPaymentOverdueAuctions(ctx context.Context, now int64, limit int) ([]int64, error) {
	var ids []int64
	err := d.DB.WithContext(ctx).Table(model.AuctionTableName()).
		Where("status = ? and payment_deadline > 0 and payment_deadline <= ? and order_id = 0", model.AuctionStatusEnded, now).
		Order("payment_deadline asc").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed on list payment overdue auctions")
	}

	return ids, nil
}

// QueryEndedUnlinked 查询用户已得标且尚未关联订单的拍卖 (供订单子系统下单用)
func (d *Dao) QueryEndedUnlinked(ctx context.Context, userId int64) ([]model.Auction, error) {
	var auctions []model.Auction
	err := d.DB.WithContext(ctx).Table(model.AuctionTableName()).
		Where("winner_id = ? and status = ? and order_id = 0", userId, model.AuctionStatusEnded).
		Order("payment_deadline asc").
		Find(&auctions).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed on query ended unlinked auctions")
	}

	return auctions, nil
}

// QueryPendingPayment 查询用户已得标待支付的拍卖
func (d *Dao) QueryPendingPayment(ctx context.Context, userId int64) ([]model.Auction, error) {
	var auctions []model.Auction
	err := d.DB.WithContext(ctx).Table(model.AuctionTableName()).
		Where("winner_id = ? and status = ?", userId, model.AuctionStatusEnded).
		Order("payment_deadline asc").
		Find(&auctions).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed on query pending payment auctions")
	}

	return auctions, nil
}
