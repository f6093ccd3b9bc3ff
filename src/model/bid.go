package model

import (
	"github.com/shopspring/decimal"
)

// Bid 出价记录
// 同一拍卖内被接受的出价金额严格递增, 最新一条即当前领先出价
type Bid struct {
	Id        int64           `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	AuctionId int64           `json:"auction_id" gorm:"column:auction_id;index"`
	BidderId  int64           `json:"bidder_id" gorm:"column:bidder_id;index"`
	BidAmount decimal.Decimal `json:"bid_amount" gorm:"column:bid_amount;type:decimal(30,10)"`
	BidTime   int64           `json:"bid_time" gorm:"column:bid_time"`
}

func BidTableName() string {
	return "ea_bid"
}

func (*Bid) TableName() string {
	return BidTableName()
}
