package types

// LinkOrderReq 订单关联请求 (订单子系统调用)
// 把一批已结束未关联的得标拍卖挂到新建的结算订单上
type LinkOrderReq struct {
	OrderId    int64   `json:"order_id" validate:"required"`
	AuctionIds []int64 `json:"auction_ids" validate:"required"`
}

// UnlinkOrderReq 解除订单关联请求 (订单取消时调用)
type UnlinkOrderReq struct {
	OrderId int64 `json:"order_id" validate:"required"`
}

// OrderPaidReq 订单支付完成信号
type OrderPaidReq struct {
	OrderId int64 `json:"order_id" validate:"required"`
}
