package model

// UserAuctionStats 用户拍卖统计与封禁状态
// BannedUntil 为 0 表示未被封禁
type UserAuctionStats struct {
	Id           int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserId       int64 `json:"user_id" gorm:"column:user_id;uniqueIndex"`
	TotalWon     int64 `json:"total_won" gorm:"column:total_won"`
	TotalPaid    int64 `json:"total_paid" gorm:"column:total_paid"`
	TotalFailed  int64 `json:"total_failed" gorm:"column:total_failed"`
	LastFailedAt int64 `json:"last_failed_at" gorm:"column:last_failed_at"`
	BannedUntil  int64 `json:"banned_until" gorm:"column:banned_until"`
	CreateTime   int64 `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime   int64 `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

func UserAuctionStatsTableName() string {
	return "ea_user_auction_stats"
}

func (*UserAuctionStats) TableName() string {
	return UserAuctionStatsTableName()
}

// IsBanned 当前是否处于封禁期
func (s *UserAuctionStats) IsBanned(now int64) bool {
	return s.BannedUntil > now
}

// BanDue 是否达到封禁条件: 累计失败次数达到阈值且当前没有生效中的封禁
func (s *UserAuctionStats) BanDue(now int64, threshold int64) bool {
	return s.TotalFailed >= threshold && !s.IsBanned(now)
}
