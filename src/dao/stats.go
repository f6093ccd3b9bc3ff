package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProjectsTask/EasyAuction/src/model"
)

// getUserStats 查询用户统计, 不存在时返回零值而非报错
// 统计行是惰性创建的, 第一次计数累加时才会插入
func (d *Dao) getUserStats(tx *gorm.DB, userId int64) (*model.UserAuctionStats, error) {
	var stats model.UserAuctionStats
	err := tx.Table(model.UserAuctionStatsTableName()).
		Where("user_id = ?", userId).
		First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UserAuctionStats{UserId: userId}, nil
		}
		return nil, errors.Wrap(err, "failed on get user auction stats")
	}

	return &stats, nil
}

// GetUserStats 查询用户的拍卖统计与封禁状态
func (d *Dao) GetUserStats(ctx context.Context, userId int64) (*model.UserAuctionStats, error) {
	return d.getUserStats(d.DB.WithContext(ctx), userId)
}

// incrementWon 得标计数 +1 (upsert)
func (d *Dao) incrementWon(tx *gorm.DB, userId int64, now int64) error {
	err := tx.Table(model.UserAuctionStatsTableName()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_won": gorm.Expr("total_won + 1"),
			}),
		}).
		Create(&model.UserAuctionStats{UserId: userId, TotalWon: 1}).Error
	if err != nil {
		return errors.Wrap(err, "failed on increment won count")
	}

	return nil
}

// incrementPaid 支付完成计数 +1 (upsert), 与订单状态流转同事务
func (d *Dao) incrementPaid(tx *gorm.DB, userId int64) error {
	err := tx.Table(model.UserAuctionStatsTableName()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_paid": gorm.Expr("total_paid + 1"),
			}),
		}).
		Create(&model.UserAuctionStats{UserId: userId, TotalPaid: 1}).Error
	if err != nil {
		return errors.Wrap(err, "failed on increment paid count")
	}

	return nil
}

// incrementFailed 弃拍计数 +1, 并在达到阈值且当前无生效封禁时写入封禁截止时间
// 返回本次是否触发了新封禁, 供调用方补发封禁通知
func (d *Dao) incrementFailed(tx *gorm.DB, userId int64, now, banThreshold, banDuration int64) (bool, error) {
	err := tx.Table(model.UserAuctionStatsTableName()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_failed":   gorm.Expr("total_failed + 1"),
				"last_failed_at": now,
			}),
		}).
		Create(&model.UserAuctionStats{UserId: userId, TotalFailed: 1, LastFailedAt: now}).Error
	if err != nil {
		return false, errors.Wrap(err, "failed on increment failed count")
	}

	stats, err := d.getUserStats(tx, userId)
	if err != nil {
		return false, err
	}
	if !stats.BanDue(now, banThreshold) {
		return false, nil
	}

	result := tx.Table(model.UserAuctionStatsTableName()).
		Where("user_id = ? and banned_until <= ?", userId, now).
		Update("banned_until", now+banDuration)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "failed on set ban")
	}

	return result.RowsAffected > 0, nil
}
