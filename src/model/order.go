package model

// 订单状态 (订单子系统写入, 本核心只读状态与支付截止时间, 并在支付超时时置为取消)
const (
	OrderStatusPendingPayment uint8 = 1
	OrderStatusPaid           uint8 = 2
	OrderStatusCancelled      uint8 = 3
)

// AuctionOrder 拍卖结算订单的本地视图
// 下单编排归订单子系统所有, 这里只承载 link/unlink 与支付超时清理所需的字段
type AuctionOrder struct {
	Id              int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	OrderSn         string `json:"order_sn" gorm:"column:order_sn;type:varchar(64);uniqueIndex"`
	UserId          int64  `json:"user_id" gorm:"column:user_id;index"`
	Status          uint8  `json:"status" gorm:"column:status;index"`
	PaymentDeadline int64  `json:"payment_deadline" gorm:"column:payment_deadline"`
	CreateTime      int64  `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime      int64  `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

func AuctionOrderTableName() string {
	return "ea_auction_order"
}

func (*AuctionOrder) TableName() string {
	return AuctionOrderTableName()
}
