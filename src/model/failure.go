package model

import (
	"github.com/shopspring/decimal"
)

// 支付失败原因
const (
	FailureReasonPaymentTimeout = "payment_timeout" // 支付截止时间内未创建订单
	FailureReasonOrderCancelled = "order_cancelled" // 关联订单支付超时被取消
)

// AuctionFailure 弃拍记录, 只增不改 (Relisted 标记除外)
type AuctionFailure struct {
	Id              int64           `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	AuctionId       int64           `json:"auction_id" gorm:"column:auction_id;index"`
	WinnerId        int64           `json:"winner_id" gorm:"column:winner_id;index"`
	WinningBid      decimal.Decimal `json:"winning_bid" gorm:"column:winning_bid;type:decimal(30,10)"`
	PaymentDeadline int64           `json:"payment_deadline" gorm:"column:payment_deadline"`
	Reason          string          `json:"reason" gorm:"column:reason;type:varchar(64)"`
	Relisted        bool            `json:"relisted" gorm:"column:relisted"`
	CreateTime      int64           `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func AuctionFailureTableName() string {
	return "ea_auction_failure"
}

func (*AuctionFailure) TableName() string {
	return AuctionFailureTableName()
}
