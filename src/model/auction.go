package model

import (
	"github.com/shopspring/decimal"

	"github.com/ProjectsTask/EasyAuction/src/errdef"
)

// 拍卖状态
const (
	AuctionStatusActive        uint8 = 1 // 竞拍中
	AuctionStatusEnded         uint8 = 2 // 已结束, 等待支付
	AuctionStatusPaymentFailed uint8 = 3 // 支付超时失败, 库存已回收
	AuctionStatusCancelled     uint8 = 4 // 已取消
	AuctionStatusRelisted      uint8 = 5 // 已重新上架 (终态)
)

// Auction 拍卖主记录
// 价格字段统一使用 decimal, 时间字段统一使用 unix 秒
// LastBidTime/EndTime 在第一次出价前为 0, PaymentDeadline 在进入 Ended 前为 0
// LeaderId 是最近一次被接受出价的出价人, 随 CurrentBid 在同一事务内更新
type Auction struct {
	Id                int64           `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	VariantId         int64           `json:"variant_id" gorm:"column:variant_id;index"`
	Quantity          int64           `json:"quantity" gorm:"column:quantity"`
	StartPrice        decimal.Decimal `json:"start_price" gorm:"column:start_price;type:decimal(30,10)"`
	BuyOutPrice       decimal.Decimal `json:"buy_out_price" gorm:"column:buy_out_price;type:decimal(30,10)"`
	CurrentBid        decimal.Decimal `json:"current_bid" gorm:"column:current_bid;type:decimal(30,10)"`
	MinIncrement      decimal.Decimal `json:"min_increment" gorm:"column:min_increment;type:decimal(30,10)"`
	StartTime         int64           `json:"start_time" gorm:"column:start_time"`
	LastBidTime       int64           `json:"last_bid_time" gorm:"column:last_bid_time"`
	EndTime           int64           `json:"end_time" gorm:"column:end_time"`
	PaymentDeadline   int64           `json:"payment_deadline" gorm:"column:payment_deadline"`
	Status            uint8           `json:"status" gorm:"column:status;index"`
	LeaderId          int64           `json:"leader_id" gorm:"column:leader_id"`
	WinnerId          int64           `json:"winner_id" gorm:"column:winner_id"`
	OrderId           int64           `json:"order_id" gorm:"column:order_id;index"`
	IsRelisted        bool            `json:"is_relisted" gorm:"column:is_relisted"`
	OriginalAuctionId int64           `json:"original_auction_id" gorm:"column:original_auction_id"`
	CreatedBy         int64           `json:"created_by" gorm:"column:created_by"`
	CreateTime        int64           `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime        int64           `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

func AuctionTableName() string {
	return "ea_auction"
}

func (*Auction) TableName() string {
	return AuctionTableName()
}

// CheckTerms 校验价格条款
// 起拍价和加价幅度必须为正, 一口价必须严格高于起拍价
func CheckTerms(startPrice, buyOutPrice, minIncrement decimal.Decimal) error {
	if !startPrice.IsPositive() {
		return errdef.Validation("start price must be positive")
	}
	if !minIncrement.IsPositive() {
		return errdef.Validation("min increment must be positive")
	}
	if !buyOutPrice.GreaterThan(startPrice) {
		return errdef.Validation("buy out price must be greater than start price")
	}
	return nil
}

// HasBids 是否已有成交出价
// 约定: LastBidTime 只会在接受出价时写入, 因此可以用它判断
func (a *Auction) HasBids() bool {
	return a.LastBidTime > 0
}

// MinAcceptableBid 当前最低可接受出价
// 无人出价时为起拍价本身, 否则为当前价加最小加价幅度
func (a *Auction) MinAcceptableBid() decimal.Decimal {
	if !a.HasBids() {
		return a.StartPrice
	}
	return a.CurrentBid.Add(a.MinIncrement)
}

// CheckBid 校验一笔普通出价能否被接受
// 封禁校验不在这里, 由调用方先查询用户状态
func (a *Auction) CheckBid(bidderId int64, amount decimal.Decimal) error {
	if a.Status != AuctionStatusActive {
		return errdef.InvalidState("auction is not active")
	}
	if amount.GreaterThanOrEqual(a.BuyOutPrice) {
		return errdef.Validation("bid amount reaches buy out price, use buy out instead")
	}
	if amount.LessThan(a.MinAcceptableBid()) {
		return errdef.Validation("bid amount below minimum acceptable bid")
	}
	if a.HasBids() && bidderId == a.LeaderId {
		return errdef.Validation("bidder is already the current leader")
	}
	return nil
}

// CheckBuyOut 校验一口价买断是否允许
// 买断绕过加价幅度与领先者校验
func (a *Auction) CheckBuyOut() error {
	if a.Status != AuctionStatusActive {
		return errdef.InvalidState("auction is not active")
	}
	return nil
}

// CheckUpdate 校验拍卖是否仍允许管理员修改
func (a *Auction) CheckUpdate() error {
	if a.Status != AuctionStatusActive {
		return errdef.InvalidState("auction is not active")
	}
	if a.HasBids() {
		return errdef.InvalidState("auction already has bids")
	}
	return nil
}

// CheckRelist 校验拍卖是否允许重新上架
// 只有支付失败且未重新上架过的拍卖可以 relist
func (a *Auction) CheckRelist() error {
	if a.Status != AuctionStatusPaymentFailed {
		return errdef.InvalidState("only payment failed auction can be relisted")
	}
	return nil
}

// AutoEndDue 自动结束条件: 最后一次出价后超过 extendWindow 秒没有新的出价
func (a *Auction) AutoEndDue(now int64, extendWindow int64) bool {
	return a.Status == AuctionStatusActive && a.LastBidTime > 0 && a.LastBidTime <= now-extendWindow
}

// PaymentOverdue 支付超时条件: 已结束, 超过支付截止时间且未关联订单
func (a *Auction) PaymentOverdue(now int64) bool {
	return a.Status == AuctionStatusEnded && a.PaymentDeadline > 0 && a.PaymentDeadline <= now && a.OrderId == 0
}
