package types

import (
	"github.com/shopspring/decimal"

	"github.com/ProjectsTask/EasyAuction/src/model"
)

// CreateAuctionReq 创建拍卖请求
type CreateAuctionReq struct {
	VariantId    int64           `json:"variant_id" validate:"required"`    // 商品变体 ID
	Quantity     int64           `json:"quantity" validate:"required"`      // 拍卖数量, 创建时预占
	StartPrice   decimal.Decimal `json:"start_price" validate:"required,dprice"`   // 起拍价
	BuyOutPrice  decimal.Decimal `json:"buy_out_price" validate:"required,dprice"` // 一口价, 必须严格高于起拍价
	MinIncrement decimal.Decimal `json:"min_increment" validate:"required,dprice"` // 最小加价幅度
}

// UpdateAuctionReq 修改拍卖条款请求 (仅限无出价的竞拍中拍卖)
type UpdateAuctionReq struct {
	Quantity     int64           `json:"quantity" validate:"required"`
	StartPrice   decimal.Decimal `json:"start_price" validate:"required,dprice"`
	BuyOutPrice  decimal.Decimal `json:"buy_out_price" validate:"required,dprice"`
	MinIncrement decimal.Decimal `json:"min_increment" validate:"required,dprice"`
}

// AuctionResp 单个拍卖响应
type AuctionResp struct {
	Result *model.Auction `json:"result"`
}

// AuctionListResp 拍卖列表响应
type AuctionListResp struct {
	Result []model.Auction `json:"result"`
	Count  int64           `json:"count"`
}

// StockResp 变体库存响应
type StockResp struct {
	Result *model.VariantStock `json:"result"`
}

// FailureListResp 弃拍记录列表响应
type FailureListResp struct {
	Result []model.AuctionFailure `json:"result"`
	Count  int64                  `json:"count"`
}
