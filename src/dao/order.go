package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProjectsTask/EasyAuction/src/errdef"
	"github.com/ProjectsTask/EasyAuction/src/model"
)

// GetOrder 查询结算订单
func (d *Dao) GetOrder(ctx context.Context, orderId int64) (*model.AuctionOrder, error) {
	var order model.AuctionOrder
	err := d.DB.WithContext(ctx).Table(model.AuctionOrderTableName()).
		Where("id = ?", orderId).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdef.WrapNotFound(err, "order not found")
		}
		return nil, errors.Wrap(err, "failed on get order")
	}

	return &order, nil
}

// LinkAuctionsToOrder 将一批已结束未关联的得标拍卖挂到结算订单上
// 要求全部命中: 任何一条不满足 (非本人得标/已关联/状态不对) 则整体回滚
func (d *Dao) LinkAuctionsToOrder(ctx context.Context, userId, orderId int64, auctionIds []int64) error {
	if len(auctionIds) == 0 {
		return errdef.Validation("auction ids is empty")
	}

	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Table(model.AuctionTableName()).
			Where("id in (?) and winner_id = ? and status = ? and order_id = 0",
				auctionIds, userId, model.AuctionStatusEnded).
			Update("order_id", orderId)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on link auctions to order")
		}
		if result.RowsAffected != int64(len(auctionIds)) {
			return errdef.InvalidState("some auctions are not linkable")
		}
		return nil
	})
}

// UnlinkAuctionsFromOrder 解除订单与拍卖的关联 (订单被取消时调用)
// 拍卖回到已结束未关联状态, 继续受支付窗口巡检约束
func (d *Dao) UnlinkAuctionsFromOrder(ctx context.Context, orderId int64) error {
	err := d.DB.WithContext(ctx).Table(model.AuctionTableName()).
		Where("order_id = ? and status = ?", orderId, model.AuctionStatusEnded).
		Update("order_id", 0).Error
	if err != nil {
		return errors.Wrap(err, "failed on unlink auctions from order")
	}

	return nil
}

// MarkOrderPaid 订单支付完成信号: 订单置为已支付并累加买家支付计数
func (d *Dao) MarkOrderPaid(ctx context.Context, orderId int64) (*model.AuctionOrder, error) {
	var out *model.AuctionOrder
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.AuctionOrder
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Table(model.AuctionOrderTableName()).
			Where("id = ?", orderId).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errdef.WrapNotFound(err, "order not found")
			}
			return errors.Wrap(err, "failed on get order for update")
		}

		result := tx.Table(model.AuctionOrderTableName()).
			Where("id = ? and status = ?", orderId, model.OrderStatusPendingPayment).
			Updates(map[string]interface{}{"status": model.OrderStatusPaid})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on mark order paid")
		}
		if result.RowsAffected == 0 {
			return errdef.InvalidState("order is not pending payment")
		}

		if err := d.incrementPaid(tx, order.UserId); err != nil {
			return err
		}

		order.Status = model.OrderStatusPaid
		out = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListOverdueOrders 选出支付截止时间已过, 仍在待支付状态且挂有拍卖的订单
func (d *Dao) ListOverdueOrders(ctx context.Context, now int64, limit int) ([]model.AuctionOrder, error) {
	var orders []model.AuctionOrder
	err := d.DB.WithContext(ctx).Table(model.AuctionOrderTableName()).
		Where("status = ? and payment_deadline > 0 and payment_deadline <= ?", model.OrderStatusPendingPayment, now).
		Where("exists (select 1 from " + model.AuctionTableName() + " where order_id = " + model.AuctionOrderTableName() + ".id)").
		Order("payment_deadline asc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed on list overdue orders")
	}

	return orders, nil
}

// CancelUnpaidOrder 取消支付超时的订单
// 同一事务内: 订单流转为已取消, 其所有关联拍卖逐个置为支付失败并回补库存,
// 写弃拍记录; 买家的弃拍计数对整个订单只累加一次
// 返回被处理的拍卖与是否触发了新封禁
func (d *Dao) CancelUnpaidOrder(ctx context.Context, orderId int64, now, banThreshold, banDuration int64) ([]model.Auction, bool, error) {
	var failed []model.Auction
	var banned bool
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.AuctionOrder
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Table(model.AuctionOrderTableName()).
			Where("id = ?", orderId).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errdef.WrapNotFound(err, "order not found")
			}
			return errors.Wrap(err, "failed on get order for update")
		}

		result := tx.Table(model.AuctionOrderTableName()).
			Where("id = ? and status = ? and payment_deadline <= ?", orderId, model.OrderStatusPendingPayment, now).
			Updates(map[string]interface{}{"status": model.OrderStatusCancelled})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed on cancel unpaid order")
		}
		if result.RowsAffected == 0 {
			return errdef.InvalidState("order is not an overdue pending payment order")
		}

		var auctions []model.Auction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Table(model.AuctionTableName()).
			Where("order_id = ? and status = ?", orderId, model.AuctionStatusEnded).
			Find(&auctions).Error; err != nil {
			return errors.Wrap(err, "failed on get order auctions")
		}

		for i := range auctions {
			auction := &auctions[i]
			if err := d.releaseStock(tx, auction.VariantId, auction.Quantity); err != nil {
				return err
			}
			res := tx.Table(model.AuctionTableName()).
				Where("id = ? and status = ? and order_id = ?", auction.Id, model.AuctionStatusEnded, orderId).
				Updates(map[string]interface{}{
					"status":   model.AuctionStatusPaymentFailed,
					"order_id": 0,
				})
			if res.Error != nil {
				return errors.Wrap(res.Error, "failed on fail order auction")
			}
			if res.RowsAffected == 0 {
				return errdef.InvalidState("auction state changed concurrently")
			}

			failure := &model.AuctionFailure{
				AuctionId:       auction.Id,
				WinnerId:        auction.WinnerId,
				WinningBid:      auction.CurrentBid,
				PaymentDeadline: order.PaymentDeadline,
				Reason:          model.FailureReasonOrderCancelled,
			}
			if err := d.createFailure(tx, failure); err != nil {
				return err
			}

			auction.Status = model.AuctionStatusPaymentFailed
			auction.OrderId = 0
		}

		// 同一订单下多个拍卖只算一次弃拍
		banned, err = d.incrementFailed(tx, order.UserId, now, banThreshold, banDuration)
		if err != nil {
			return err
		}

		failed = auctions
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return failed, banned, nil
}
