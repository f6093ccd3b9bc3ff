package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuction/src/model"
)

// createFailure 写入弃拍记录, 必须与对应的状态流转同事务
func (d *Dao) createFailure(tx *gorm.DB, failure *model.AuctionFailure) error {
	if err := tx.Table(model.AuctionFailureTableName()).Create(failure).Error; err != nil {
		return errors.Wrap(err, "failed on create auction failure record")
	}

	return nil
}

// markFailuresRelisted 重新上架后回填原拍卖弃拍记录的 Relisted 标记
func (d *Dao) markFailuresRelisted(tx *gorm.DB, auctionId int64) error {
	err := tx.Table(model.AuctionFailureTableName()).
		Where("auction_id = ?", auctionId).
		Update("relisted", true).Error
	if err != nil {
		return errors.Wrap(err, "failed on mark failures relisted")
	}

	return nil
}

// ListFailures 分页查询弃拍记录, userId 非 0 时只看指定用户
func (d *Dao) ListFailures(ctx context.Context, userId int64, page, pageSize int) ([]model.AuctionFailure, int64, error) {
	var failures []model.AuctionFailure
	var total int64

	db := d.DB.WithContext(ctx).Table(model.AuctionFailureTableName())
	if userId != 0 {
		db = db.Where("winner_id = ?", userId)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on count auction failures")
	}
	if err := db.Order("id desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&failures).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on list auction failures")
	}

	return failures, total, nil
}
