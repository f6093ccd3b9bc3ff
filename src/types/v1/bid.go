package types

import (
	"github.com/shopspring/decimal"

	"github.com/ProjectsTask/EasyAuction/src/model"
)

// PlaceBidReq 出价请求
type PlaceBidReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,dprice"` // 出价金额
}

// BidListResp 出价历史响应
type BidListResp struct {
	Result []model.Bid `json:"result"`
	Count  int64       `json:"count"`
}

// UserStatsResp 用户拍卖统计响应
type UserStatsResp struct {
	Result *model.UserAuctionStats `json:"result"`
}
