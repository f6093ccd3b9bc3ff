package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuction/src/errdef"
	"github.com/ProjectsTask/EasyAuction/src/model"
)

// GetVariantStock 查询变体当前可用库存
func (d *Dao) GetVariantStock(ctx context.Context, variantId int64) (*model.VariantStock, error) {
	var stock model.VariantStock
	err := d.DB.WithContext(ctx).Table(model.VariantStockTableName()).
		Where("variant_id = ?", variantId).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdef.WrapNotFound(err, "variant stock not found")
		}
		return nil, errors.Wrap(err, "failed on get variant stock")
	}

	return &stock, nil
}

// reserveStock 预占库存
// 使用带余量条件的 UPDATE 保证并发下库存不会被扣成负数:
// UPDATE ea_variant_stock SET available = available - ? WHERE variant_id = ? AND available >= ?
// 必须在调用方的事务内执行, 与拍卖状态变更一起提交或一起回滚
func (d *Dao) reserveStock(tx *gorm.DB, variantId int64, quantity int64) error {
	result := tx.Table(model.VariantStockTableName()).
		Where("variant_id = ? and available >= ?", variantId, quantity).
		Update("available", gorm.Expr("available - ?", quantity))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed on reserve stock")
	}
	if result.RowsAffected == 0 {
		// 区分 "变体不存在" 和 "库存不足"
		var count int64
		if err := tx.Table(model.VariantStockTableName()).
			Where("variant_id = ?", variantId).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed on check variant stock")
		}
		if count == 0 {
			return errdef.NotFound("variant stock not found")
		}
		return errdef.Validation("insufficient stock for variant")
	}

	return nil
}

// releaseStock 释放库存, 与 reserveStock 成对出现
func (d *Dao) releaseStock(tx *gorm.DB, variantId int64, quantity int64) error {
	result := tx.Table(model.VariantStockTableName()).
		Where("variant_id = ?", variantId).
		Update("available", gorm.Expr("available + ?", quantity))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed on release stock")
	}
	if result.RowsAffected == 0 {
		return errdef.NotFound("variant stock not found")
	}

	return nil
}
